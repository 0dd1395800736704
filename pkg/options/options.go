// Package options provides data structures and functions for configuring
// a diskvault instance. It defines the parameters that control the
// simulated disk's geometry and where its backing file and sector-map
// sidecar are stored on the host filesystem.
package options

import "strings"

// Defines the cylinder-head-sector geometry of a simulated disk.
// Every dimension must be positive; surfaces per platter is fixed at two
// (one per platter face) and is not configurable.
type GeometryOptions struct {
	// Number of platters stacked in the disk.
	//
	// Default: 1
	Platters int `json:"platters"`

	// Number of concentric tracks per surface.
	//
	// Default: 40
	Tracks int `json:"tracks"`

	// Number of sectors per track.
	//
	// Default: 16
	Sectors int `json:"sectors"`

	// Size in bytes of a single sector, including the 6-byte fragment
	// header every sector carries.
	//
	// Default: 512
	SectorSize int `json:"sectorSize"`
}

// Defines the configuration parameters for a diskvault instance.
// It provides control over where files live on disk and how the
// simulated disk itself is shaped.
type Options struct {
	// Specifies the base path where the backing file and sector-map
	// sidecar will be stored.
	//
	// Default: "/var/lib/diskvault"
	DataDir string `json:"dataDir"`

	// Base filename (without extension) for the backing file. The
	// sector-map sidecar is stored alongside it with a ".map" suffix.
	//
	// Default: "disk"
	DiskFileName string `json:"diskFileName"`

	// Shape of the simulated disk: platters, tracks, sectors, and
	// sector size.
	Geometry *GeometryOptions `json:"geometry"`
}

// OptionFunc is a function type that modifies a diskvault instance's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.DiskFileName = opts.DiskFileName
		o.Geometry = opts.Geometry
	}
}

// Sets the primary data directory for the backing file and sector map.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the base filename used for the backing file and its sidecar.
func WithDiskFileName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.DiskFileName = name
		}
	}
}

// Sets the number of platters in the simulated disk's geometry.
func WithPlatters(platters int) OptionFunc {
	return func(o *Options) {
		if platters > 0 {
			o.Geometry.Platters = platters
		}
	}
}

// Sets the number of tracks per surface in the simulated disk's geometry.
func WithTracks(tracks int) OptionFunc {
	return func(o *Options) {
		if tracks > 0 {
			o.Geometry.Tracks = tracks
		}
	}
}

// Sets the number of sectors per track in the simulated disk's geometry.
func WithSectors(sectors int) OptionFunc {
	return func(o *Options) {
		if sectors > 0 {
			o.Geometry.Sectors = sectors
		}
	}
}

// Sets the size in bytes of a single sector.
func WithSectorSize(size int) OptionFunc {
	return func(o *Options) {
		if size >= MinSectorSize && size <= MaxSectorSize {
			o.Geometry.SectorSize = size
		}
	}
}
