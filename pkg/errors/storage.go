package errors

// StorageError is a specialized error type for backing-file and sector-map
// operations. It embeds baseError to inherit all the standard error
// functionality, then adds storage-specific fields that help pinpoint
// exactly where problems occurred.
type StorageError struct {
	*baseError
	sector   int    // Which logical sector was being accessed when the error occurred.
	offset   int    // Byte offset in the file where the problem happened.
	fileName string // Name of the file that caused the issue.
	path     string // Path of the file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// WithSector sets which logical sector was involved in the error.
func (se *StorageError) WithSector(sector int) *StorageError {
	se.sector = sector
	return se
}

// WithOffset records the byte position where the error occurred.
func (se *StorageError) WithOffset(offset int) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// Sector returns the logical sector where the error occurred.
func (se *StorageError) Sector() int {
	return se.sector
}

// Offset returns the byte offset in the file where the error happened.
func (se *StorageError) Offset() int {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
