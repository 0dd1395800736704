package errors

// IndexError provides specialized error handling for AVL primary-key index
// operations. This structure extends the base error system with
// index-specific context while properly supporting method chaining through
// all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which key was being processed when the error occurred.
	key string

	// Describes what index operation was being performed when the
	// error occurred (e.g., "Insert", "Search", "Free"). This context
	// helps understand the system state and user actions that led to the error.
	operation string

	// Captures the size of the index at the time of the error. This
	// information helps diagnose capacity-related issues and provides
	// context about the scale of the tree when problems occur.
	indexSize int
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(err, code, msg),
	}
}

// Override base error methods to return *IndexError instead of *baseError.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithKey records which key was being processed when the error occurred.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithOperation records what index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithIndexSize captures the size of the index when the error occurred.
func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// IndexSize returns the size of the index when the error occurred.
func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

// Helper functions for creating common index errors with appropriate context.

// NewKeyNotFoundError creates a specialized error for a lookup or free
// issued against a key absent from the index.
func NewKeyNotFoundError(key string, operation string) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexKeyNotFound, "key not found in index").
		WithKey(key).
		WithOperation(operation)
}

// NewKeyKindMismatchError creates an error for an insert whose key variant
// (int vs. string) does not match the kind already established by the
// table's primary key.
func NewKeyKindMismatchError(key string) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexKeyKindMismatch, "key kind does not match table's primary key kind").
		WithKey(key).
		WithOperation("Insert")
}

// NewIndexCorruptionError creates an error for index corruption scenarios,
// e.g. an AVL balance-factor or BST-ordering invariant found violated.
func NewIndexCorruptionError(operation string, indexSize int, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexCorrupted, "index data structure corrupted").
		WithOperation(operation).
		WithIndexSize(indexSize).
		WithDetail("corruption_detected", true)
}
