package errors

// GeometryError is a specialized error type for disk-geometry and
// sector-allocation failures: a sector number outside the addressable
// range, or a fragment that no sector on the disk has room for.
type GeometryError struct {
	*baseError

	// Logical sector number involved in the error, where applicable.
	sector int

	// Total number of sectors addressable by the disk's geometry.
	totalSectors int

	// Size in bytes of the fragment that could not be placed.
	fragmentSize int
}

// NewGeometryError creates a new geometry-specific error with the provided context.
func NewGeometryError(err error, code ErrorCode, msg string) *GeometryError {
	return &GeometryError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *GeometryError instead of *baseError.

// WithMessage updates the error message while maintaining the GeometryError type.
func (ge *GeometryError) WithMessage(msg string) *GeometryError {
	ge.baseError.WithMessage(msg)
	return ge
}

// WithCode sets the error code while preserving the GeometryError type.
func (ge *GeometryError) WithCode(code ErrorCode) *GeometryError {
	ge.baseError.WithCode(code)
	return ge
}

// WithDetail adds contextual information while maintaining the GeometryError type.
func (ge *GeometryError) WithDetail(key string, value any) *GeometryError {
	ge.baseError.WithDetail(key, value)
	return ge
}

// WithSector records the logical sector number involved in the error.
func (ge *GeometryError) WithSector(sector int) *GeometryError {
	ge.sector = sector
	return ge
}

// WithTotalSectors records the disk's addressable sector count.
func (ge *GeometryError) WithTotalSectors(total int) *GeometryError {
	ge.totalSectors = total
	return ge
}

// WithFragmentSize records the size of the fragment that could not be placed.
func (ge *GeometryError) WithFragmentSize(size int) *GeometryError {
	ge.fragmentSize = size
	return ge
}

// Sector returns the logical sector number involved in the error.
func (ge *GeometryError) Sector() int {
	return ge.sector
}

// TotalSectors returns the disk's addressable sector count.
func (ge *GeometryError) TotalSectors() int {
	return ge.totalSectors
}

// FragmentSize returns the size of the fragment that could not be placed.
func (ge *GeometryError) FragmentSize() int {
	return ge.fragmentSize
}

// Helper functions for creating common geometry errors with appropriate context.

// NewSectorOutOfRangeError creates an error for a sector number outside
// the disk's addressable range.
func NewSectorOutOfRangeError(sector, totalSectors int) *GeometryError {
	return NewGeometryError(nil, ErrorCodeOutOfRange, "sector number outside disk's addressable range").
		WithSector(sector).
		WithTotalSectors(totalSectors)
}

// NewOutOfSpaceError creates an error for a fragment that no sector on
// the disk has room for.
func NewOutOfSpaceError(fragmentSize int) *GeometryError {
	return NewGeometryError(nil, ErrorCodeOutOfSpace, "no sector has room for the next fragment").
		WithFragmentSize(fragmentSize)
}
