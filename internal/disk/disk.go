// Package disk simulates the physical backing store of the system: a
// single flat file sized to a configured cylinder-head-sector geometry,
// plus a small sidecar file tracking which sectors currently hold part of
// a record.
//
// The sidecar's on-disk encoding is private to this package. Nothing
// outside diskvault ever reads it directly, so it is free to change shape
// between versions without any compatibility concern.
package disk

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"diskvault/internal/geometry"
	"diskvault/pkg/errors"
	"diskvault/pkg/filesys"
	"diskvault/pkg/options"

	"go.uber.org/zap"
)

const mapFileSuffix = ".map"

// Disk is the simulated backing store: a fixed-size byte file addressed by
// logical sector number, with a refcounted occupancy map tracking how many
// live fragments currently occupy each sector.
type Disk struct {
	mu       sync.Mutex
	geometry *geometry.Geometry
	log      *zap.SugaredLogger

	file     *os.File
	filePath string
	mapPath  string

	// usage[i] counts how many fragments currently occupy sector i. A
	// sector is free when its count is zero. Refcounting (rather than a
	// boolean) lets two record chains share a sector's header region
	// through successive writes without one chain's Free prematurely
	// marking the sector free out from under the other.
	usage []int
}

// Config encapsulates the parameters required to initialize a Disk.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens an existing backing file and its occupancy sidecar, or creates
// both fresh if this is the first time this data directory has been used.
func New(ctx context.Context, config *Config) (*Disk, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("invalid configuration")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	geo, err := geometry.New(config.Options.Geometry)
	if err != nil {
		return nil, err
	}

	config.Logger.Infow(
		"Initializing disk",
		"dataDir", config.Options.DataDir,
		"diskFileName", config.Options.DiskFileName,
		"platters", geo.Platters,
		"tracks", geo.Tracks,
		"sectors", geo.Sectors,
		"sectorSize", geo.SectorSize,
		"totalSectors", geo.TotalSectors(),
	)

	if err := filesys.CreateDir(config.Options.DataDir, 0755, true); err != nil {
		return nil, errors.ClassifyDirectoryCreationError(err, config.Options.DataDir)
	}

	filePath := filepath.Join(config.Options.DataDir, config.Options.DiskFileName)
	mapPath := filePath + mapFileSuffix

	d := &Disk{geometry: geo, log: config.Logger, filePath: filePath, mapPath: mapPath}

	exists, err := filesys.Exists(filePath)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat backing file").WithPath(filePath)
	}

	if !exists {
		if err := d.initialize(); err != nil {
			return nil, err
		}
	} else if err := d.load(); err != nil {
		return nil, err
	}

	config.Logger.Infow(
		"Disk initialized successfully",
		"path", filePath,
		"totalSectors", geo.TotalSectors(),
		"totalCapacity", geo.TotalCapacity(),
	)
	return d, nil
}

// initialize creates a fresh zero-filled backing file and a fresh, fully
// free occupancy map.
func (d *Disk) initialize() error {
	file, err := os.OpenFile(d.filePath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, d.filePath, filepath.Base(d.filePath))
	}

	if err := file.Truncate(int64(d.geometry.TotalCapacity())); err != nil {
		file.Close()
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to size backing file").
			WithPath(d.filePath).WithDetail("size", d.geometry.TotalCapacity())
	}

	d.file = file
	d.usage = make([]int, d.geometry.TotalSectors())

	d.log.Infow("Created new backing file", "path", d.filePath, "size", d.geometry.TotalCapacity())
	return d.saveUsageMap()
}

// load opens an existing backing file and restores its occupancy map,
// rebuilding the map from scratch (all sectors free) if the sidecar is
// missing.
func (d *Disk) load() error {
	file, err := os.OpenFile(d.filePath, os.O_RDWR, 0644)
	if err != nil {
		return errors.ClassifyFileOpenError(err, d.filePath, filepath.Base(d.filePath))
	}
	d.file = file

	mapExists, err := filesys.Exists(d.mapPath)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat sector map").WithPath(d.mapPath)
	}

	if !mapExists {
		d.log.Infow("No sector map sidecar found, rebuilding as fully free", "path", d.mapPath)
		d.usage = make([]int, d.geometry.TotalSectors())
		return d.saveUsageMap()
	}

	raw, err := filesys.ReadFile(d.mapPath)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read sector map").WithPath(d.mapPath)
	}

	var usage []int
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&usage); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to decode sector map").WithPath(d.mapPath)
	}

	if len(usage) != d.geometry.TotalSectors() {
		return errors.NewGeometryError(
			nil, errors.ErrorCodeOutOfRange, "sector map length does not match configured geometry",
		).WithTotalSectors(d.geometry.TotalSectors()).WithDetail("mapLength", len(usage))
	}

	d.usage = usage
	return nil
}

// saveUsageMap persists the occupancy map sidecar. Saving after every
// mutation keeps the sidecar in lockstep with the backing file, matching
// the reference implementation's write-through behavior.
func (d *Disk) saveUsageMap() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d.usage); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to encode sector map").WithPath(d.mapPath)
	}
	if err := filesys.WriteFile(d.mapPath, 0644, buf.Bytes()); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write sector map").WithPath(d.mapPath)
	}
	return nil
}

// SectorSize returns the size in bytes of a single sector.
func (d *Disk) SectorSize() int {
	return d.geometry.SectorSize
}

// TotalSectors returns the number of logical sectors on the disk.
func (d *Disk) TotalSectors() int {
	return d.geometry.TotalSectors()
}

// Locate decomposes a logical sector number into physical CHS coordinates.
func (d *Disk) Locate(sectorNum int) (geometry.Location, error) {
	return d.geometry.Locate(sectorNum)
}

// ReadAt reads len(buf) bytes from the backing file starting at the given
// absolute byte offset.
func (d *Disk) ReadAt(buf []byte, off int64) (int, error) {
	n, err := d.file.ReadAt(buf, off)
	if err != nil {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read backing file").
			WithPath(d.filePath).WithOffset(int(off))
	}
	return n, nil
}

// WriteAt writes buf to the backing file starting at the given absolute
// byte offset.
func (d *Disk) WriteAt(buf []byte, off int64) (int, error) {
	n, err := d.file.WriteAt(buf, off)
	if err != nil {
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write backing file").
			WithPath(d.filePath).WithOffset(int(off))
	}
	return n, nil
}

// SectorOccupied reports whether the given sector currently holds any live
// fragment.
func (d *Disk) SectorOccupied(sector int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.usage[sector] > 0
}

// MarkFragmentPlaced records that a fragment has been placed in the given
// sector, incrementing its refcount and persisting the updated map.
func (d *Disk) MarkFragmentPlaced(sector int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.usage[sector]++
	return d.saveUsageMap()
}

// MarkFragmentFreed records that a fragment has been reclaimed from the
// given sector, decrementing its refcount and persisting the updated map.
// A sector only becomes free again once every fragment placed in it has
// been reclaimed.
func (d *Disk) MarkFragmentFreed(sector int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.usage[sector] > 0 {
		d.usage[sector]--
	}
	return d.saveUsageMap()
}

// FindFreeSectors finds the first run of n contiguous, fully free sectors,
// returning their sector numbers in ascending order.
func (d *Disk) FindFreeSectors(n int) ([]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	consecutiveFree := 0
	startSector := -1

	for sector := 0; sector < len(d.usage); sector++ {
		if d.usage[sector] == 0 {
			if consecutiveFree == 0 {
				startSector = sector
			}
			consecutiveFree++
			if consecutiveFree >= n {
				result := make([]int, n)
				for i := range result {
					result[i] = startSector + i
				}
				return result, nil
			}
		} else {
			consecutiveFree = 0
		}
	}

	return nil, errors.NewOutOfSpaceError(n * d.geometry.SectorSize)
}

// Status is a point-in-time snapshot of disk occupancy and geometry,
// suitable for surfacing to an operator or a CLI status command.
type Status struct {
	TotalSectors       int
	UsedSectors        int
	FreeSectors        int
	TotalCapacity      int
	UsedSpace          int
	FreeSpace          int
	SectorSize         int
	Platters           int
	TracksPerSurface   int
	SectorsPerTrack    int
	SurfacesPerPlatter int
}

// Status returns a snapshot of the disk's current occupancy.
func (d *Disk) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	used := 0
	for _, count := range d.usage {
		if count > 0 {
			used++
		}
	}
	total := len(d.usage)
	free := total - used

	return Status{
		TotalSectors:       total,
		UsedSectors:        used,
		FreeSectors:        free,
		TotalCapacity:      d.geometry.TotalCapacity(),
		UsedSpace:          used * d.geometry.SectorSize,
		FreeSpace:          free * d.geometry.SectorSize,
		SectorSize:         d.geometry.SectorSize,
		Platters:           d.geometry.Platters,
		TracksPerSurface:   d.geometry.Tracks,
		SectorsPerTrack:    d.geometry.Sectors,
		SurfacesPerPlatter: geometry.SurfacesPerPlatter,
	}
}

// Close releases the backing file handle.
func (d *Disk) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}
