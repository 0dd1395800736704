package options

const (
	// Specifies the default base directory where diskvault will store its
	// backing file and sector-map sidecar. If no other directory is
	// specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/diskvault"

	// Default base filename for the backing file.
	DefaultDiskFileName = "disk"

	// Default platter count.
	DefaultPlatters = 1

	// Default track count per surface.
	DefaultTracks = 40

	// Default sector count per track.
	DefaultSectors = 16

	// Default sector size in bytes.
	DefaultSectorSize = 512

	// Smallest sector size accepted; must be large enough to hold the
	// 6-byte fragment header plus at least one byte of payload.
	MinSectorSize = 16

	// Largest sector size accepted. Fragment headers encode in-sector
	// offsets in 2 bytes, so no offset within a sector can exceed 65535.
	MaxSectorSize = 65535
)

// Holds the default configuration settings for a diskvault instance.
var defaultOptions = Options{
	DataDir:      DefaultDataDir,
	DiskFileName: DefaultDiskFileName,
	Geometry: &GeometryOptions{
		Platters:   DefaultPlatters,
		Tracks:     DefaultTracks,
		Sectors:    DefaultSectors,
		SectorSize: DefaultSectorSize,
	},
}

// NewDefaultOptions returns a copy of the baseline configuration used when
// no options are supplied.
func NewDefaultOptions() Options {
	opts := defaultOptions
	geometry := *defaultOptions.Geometry
	opts.Geometry = &geometry
	return opts
}
