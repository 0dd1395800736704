package errors

// CodecError is a specialized error type for fixed-width record
// serialization and deserialization failures. It embeds baseError to
// inherit all the standard error functionality, then adds the field-level
// context needed to say exactly which column and which declared type
// rejected the offending value.
type CodecError struct {
	*baseError

	// Name of the schema field being encoded or decoded.
	field string

	// Declared type of the field (e.g. "INTEGER", "VARCHAR").
	fieldType string

	// Raw value that could not be encoded, or the raw bytes that could
	// not be decoded, rendered as a string for logging.
	value string
}

// NewCodecError creates a new codec-specific error with the provided context.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *CodecError instead of *baseError.

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the CodecError type.
func (ce *CodecError) WithCode(code ErrorCode) *CodecError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithField records which schema field was being processed.
func (ce *CodecError) WithField(field string) *CodecError {
	ce.field = field
	return ce
}

// WithFieldType records the declared type of the field.
func (ce *CodecError) WithFieldType(fieldType string) *CodecError {
	ce.fieldType = fieldType
	return ce
}

// WithValue captures the offending raw value or decoded byte window.
func (ce *CodecError) WithValue(value string) *CodecError {
	ce.value = value
	return ce
}

// Field returns the schema field name involved in the error.
func (ce *CodecError) Field() string {
	return ce.field
}

// FieldType returns the declared type of the field involved in the error.
func (ce *CodecError) FieldType() string {
	return ce.fieldType
}

// Value returns the offending raw value or decoded byte window.
func (ce *CodecError) Value() string {
	return ce.value
}

// Helper functions for creating common codec errors with appropriate context.

// NewTypeMismatchError creates an error for a raw field value that failed
// its declared type's format check.
func NewTypeMismatchError(field, fieldType, value string) *CodecError {
	return NewCodecError(nil, ErrorCodeTypeMismatch, "field value does not match declared type").
		WithField(field).
		WithFieldType(fieldType).
		WithValue(value)
}

// NewNullViolationError creates an error for a missing or empty value
// supplied to a non-nullable field.
func NewNullViolationError(field, fieldType string) *CodecError {
	return NewCodecError(nil, ErrorCodeNullViolation, "non-nullable field is missing a value").
		WithField(field).
		WithFieldType(fieldType)
}

// NewFieldOutOfRangeError creates an error for a numeric field value that
// does not fit its declared width.
func NewFieldOutOfRangeError(field, fieldType, value string) *CodecError {
	return NewCodecError(nil, ErrorCodeOutOfRange, "field value out of range for declared type").
		WithField(field).
		WithFieldType(fieldType).
		WithValue(value)
}

// NewSchemaMismatchError creates an error for a row missing a field the
// schema requires.
func NewSchemaMismatchError(field string) *CodecError {
	return NewCodecError(nil, ErrorCodeSchemaMismatch, "row is missing a field required by the schema").
		WithField(field)
}
