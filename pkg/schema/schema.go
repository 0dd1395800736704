// Package schema describes the shape of a single table: its fields, their
// declared SQL-subset types, and the fixed byte width each field occupies
// once a row is serialized onto the disk. A Schema is produced once (by
// pkg/ddl, parsing a CREATE TABLE statement) and then shared read-only by
// internal/codec and internal/engine for the lifetime of a loaded table.
package schema

import "fmt"

// FieldType identifies one of the supported SQL-subset column types.
type FieldType string

// Supported field types, matching the type vocabulary a CREATE TABLE
// statement may use.
const (
	Integer  FieldType = "INTEGER"
	Int      FieldType = "INT"
	BigInt   FieldType = "BIGINT"
	SmallInt FieldType = "SMALLINT"
	TinyInt  FieldType = "TINYINT"
	Decimal  FieldType = "DECIMAL"
	Float    FieldType = "FLOAT"
	Double   FieldType = "DOUBLE"
	Char     FieldType = "CHAR"
	Varchar  FieldType = "VARCHAR"
	Text     FieldType = "TEXT"
	Date     FieldType = "DATE"
	DateTime FieldType = "DATETIME"
	Boolean  FieldType = "BOOLEAN"
	Bool     FieldType = "BOOL"
)

// baseSizes gives the on-disk width, in bytes, of one unit of each type.
// For CHAR/VARCHAR the declared length multiplies this base size; every
// other type ignores any declared length and always occupies its base size.
var baseSizes = map[FieldType]int{
	Integer:  4,
	Int:      4,
	BigInt:   8,
	SmallInt: 2,
	TinyInt:  1,
	Decimal:  8,
	Float:    4,
	Double:   8,
	Char:     1,
	Varchar:  1,
	Text:     255,
	Date:     8,
	DateTime: 8,
	Boolean:  1,
	Bool:     1,
}

// IsIntegerFamily reports whether t is one of the fixed-width signed
// integer types.
func IsIntegerFamily(t FieldType) bool {
	switch t {
	case Integer, Int, BigInt, SmallInt, TinyInt:
		return true
	default:
		return false
	}
}

// IsDecimalFamily reports whether t is one of the floating-point types.
func IsDecimalFamily(t FieldType) bool {
	switch t {
	case Decimal, Float, Double:
		return true
	default:
		return false
	}
}

// IsStringFamily reports whether t is stored as right-space-padded UTF-8 text.
func IsStringFamily(t FieldType) bool {
	switch t {
	case Char, Varchar, Text, Date, DateTime:
		return true
	default:
		return false
	}
}

// IsBoolFamily reports whether t is the single-byte boolean type.
func IsBoolFamily(t FieldType) bool {
	return t == Boolean || t == Bool
}

// FieldSize returns the on-disk width in bytes for a field declared with
// the given type and, for CHAR/VARCHAR, declared length. A length of 0 is
// ignored for non-string types.
func FieldSize(t FieldType, declaredLength int) int {
	base, ok := baseSizes[t]
	if !ok {
		return 1
	}
	if declaredLength > 0 && (t == Char || t == Varchar) {
		return declaredLength * base
	}
	return base
}

// Field describes one column of a table.
type Field struct {
	Name        string
	Type        FieldType
	Size        int
	Nullable    bool
	Constraints string
}

// Schema describes a single loaded table.
type Schema struct {
	TableName  string
	PrimaryKey string
	Fields     []Field
	RecordSize int
}

// FieldByName returns the field with the given name, or false if no such
// field is declared on the schema.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// PrimaryKeyField returns the field declared as the table's primary key.
func (s *Schema) PrimaryKeyField() (Field, bool) {
	return s.FieldByName(s.PrimaryKey)
}

// PrimaryKeyIsString reports whether the primary key field belongs to the
// string type family, versus the integer family. A primary key of any
// other type (decimal, boolean), or one not declared as a field, is
// reported as an error.
func (s *Schema) PrimaryKeyIsString() (bool, error) {
	pk, ok := s.PrimaryKeyField()
	if !ok {
		return false, fmt.Errorf("schema %q: primary key field %q not declared", s.TableName, s.PrimaryKey)
	}
	switch {
	case IsIntegerFamily(pk.Type):
		return false, nil
	case IsStringFamily(pk.Type):
		return true, nil
	default:
		return false, fmt.Errorf("schema %q: primary key field %q has unsupported type %s", s.TableName, s.PrimaryKey, pk.Type)
	}
}
