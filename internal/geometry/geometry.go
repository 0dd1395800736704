// Package geometry describes the physical shape of a simulated disk and
// converts between a logical sector number and its cylinder-head-sector
// coordinates.
package geometry

import (
	"diskvault/pkg/errors"
	"diskvault/pkg/options"
)

// SurfacesPerPlatter is fixed: every platter has exactly two recording
// surfaces, one per face.
const SurfacesPerPlatter = 2

// Geometry is the immutable shape of a simulated disk.
type Geometry struct {
	Platters   int
	Tracks     int
	Sectors    int
	SectorSize int
}

// Location is the physical cylinder-head-sector address a logical sector
// number decomposes into.
type Location struct {
	Platter int
	Surface int
	Track   int
	Sector  int
}

// New validates a GeometryOptions and produces an immutable Geometry.
func New(opts *options.GeometryOptions) (*Geometry, error) {
	if opts == nil {
		return nil, errors.NewConfigurationValidationError("geometry", "geometry options are required")
	}
	if opts.Platters <= 0 {
		return nil, errors.NewFieldRangeError("platters", opts.Platters, 1, nil)
	}
	if opts.Tracks <= 0 {
		return nil, errors.NewFieldRangeError("tracks", opts.Tracks, 1, nil)
	}
	if opts.Sectors <= 0 {
		return nil, errors.NewFieldRangeError("sectors", opts.Sectors, 1, nil)
	}
	if opts.SectorSize <= 0 {
		return nil, errors.NewFieldRangeError("sectorSize", opts.SectorSize, 1, nil)
	}

	geo := &Geometry{
		Platters:   opts.Platters,
		Tracks:     opts.Tracks,
		Sectors:    opts.Sectors,
		SectorSize: opts.SectorSize,
	}

	// Fragment headers address the next fragment in a chain with a 2-byte
	// sector number, so the disk's logical sector space must fit in a uint16.
	if total := geo.TotalSectors(); total > 1<<16-1 {
		return nil, errors.NewFieldRangeError("totalSectors", total, 1, 1<<16-1)
	}

	return geo, nil
}

// TotalSectors returns the number of logical sectors addressable on the disk.
func (g *Geometry) TotalSectors() int {
	return g.Platters * SurfacesPerPlatter * g.Tracks * g.Sectors
}

// TotalCapacity returns the disk's total usable space in bytes.
func (g *Geometry) TotalCapacity() int {
	return g.TotalSectors() * g.SectorSize
}

// Locate decomposes a logical sector number into its physical
// platter/surface/track/sector coordinates.
func (g *Geometry) Locate(sectorNum int) (Location, error) {
	total := g.TotalSectors()
	if sectorNum < 0 || sectorNum >= total {
		return Location{}, errors.NewSectorOutOfRangeError(sectorNum, total)
	}

	sectorsPerSurface := g.Tracks * g.Sectors
	sectorsPerPlatter := SurfacesPerPlatter * sectorsPerSurface

	remaining := sectorNum

	platter := remaining / sectorsPerPlatter
	remaining %= sectorsPerPlatter

	surface := remaining / sectorsPerSurface
	remaining %= sectorsPerSurface

	track := remaining / g.Sectors
	sector := remaining % g.Sectors

	return Location{Platter: platter, Surface: surface, Track: track, Sector: sector}, nil
}
