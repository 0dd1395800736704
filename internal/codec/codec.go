// Package codec converts a row of typed field values to and from the
// fixed-width binary layout a schema.Schema describes, one field at a
// time, in declaration order.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"diskvault/pkg/errors"
	"diskvault/pkg/schema"
)

// Serialize packs values into a single fixed-width byte slice whose
// length equals sch.RecordSize. A missing or nil value for a nullable
// field is written as a zero-filled window; a missing value for a
// non-nullable field is an error.
func Serialize(values map[string]any, sch *schema.Schema) ([]byte, error) {
	out := make([]byte, 0, sch.RecordSize)

	for _, field := range sch.Fields {
		value, present := values[field.Name]
		if !present || value == nil {
			if !field.Nullable {
				return nil, errors.NewNullViolationError(field.Name, string(field.Type))
			}
			out = append(out, make([]byte, field.Size)...)
			continue
		}

		part, err := serializeField(value, field)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}

	return out, nil
}

func serializeField(value any, field schema.Field) ([]byte, error) {
	switch {
	case schema.IsIntegerFamily(field.Type):
		return serializeInteger(value, field)
	case schema.IsDecimalFamily(field.Type):
		return serializeDecimal(value, field)
	case schema.IsBoolFamily(field.Type):
		return serializeBool(value, field)
	case schema.IsStringFamily(field.Type):
		return serializeString(value, field)
	default:
		return serializeString(value, field)
	}
}

func serializeInteger(value any, field schema.Field) ([]byte, error) {
	n, ok := toInt64(value)
	if !ok {
		return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), fmt.Sprint(value))
	}

	lo, hi := integerRange(field.Type)
	if n < lo || n > hi {
		return nil, errors.NewFieldOutOfRangeError(field.Name, string(field.Type), fmt.Sprint(value))
	}

	buf := make([]byte, field.Size)
	switch field.Size {
	case 1:
		buf[0] = byte(int8(n))
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(int16(n)))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(int32(n)))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(n))
	default:
		return nil, errors.NewFieldOutOfRangeError(field.Name, string(field.Type), fmt.Sprint(value))
	}
	return buf, nil
}

func integerRange(t schema.FieldType) (int64, int64) {
	switch t {
	case schema.TinyInt:
		return math.MinInt8, math.MaxInt8
	case schema.SmallInt:
		return math.MinInt16, math.MaxInt16
	case schema.Integer, schema.Int:
		return math.MinInt32, math.MaxInt32
	default: // BigInt
		return math.MinInt64, math.MaxInt64
	}
}

func serializeDecimal(value any, field schema.Field) ([]byte, error) {
	f, ok := toFloat64(value)
	if !ok {
		return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), fmt.Sprint(value))
	}

	buf := make([]byte, field.Size)
	if field.Type == schema.Float {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
	} else {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	}
	return buf, nil
}

func serializeBool(value any, field schema.Field) ([]byte, error) {
	b, ok := toBool(value)
	if !ok {
		return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), fmt.Sprint(value))
	}
	buf := make([]byte, field.Size)
	if b {
		buf[0] = 1
	}
	return buf, nil
}

func serializeString(value any, field schema.Field) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}

	raw := []byte(s)
	if len(raw) > field.Size {
		raw = raw[:field.Size]
	}

	buf := make([]byte, field.Size)
	copy(buf, raw)
	for i := len(raw); i < field.Size; i++ {
		buf[i] = ' '
	}
	return buf, nil
}

// Deserialize unpacks a fixed-width record back into a map keyed by field
// name. An all-zero byte window for a string-family field decodes as nil,
// matching the encoding used for a null value during Serialize.
func Deserialize(data []byte, sch *schema.Schema) (map[string]any, error) {
	if len(data) != sch.RecordSize {
		return nil, errors.NewCodecError(
			nil, errors.ErrorCodeSchemaMismatch, "record length does not match schema's declared record size",
		).WithDetail("expected", sch.RecordSize).WithDetail("actual", len(data))
	}

	record := make(map[string]any, len(sch.Fields))
	offset := 0

	for _, field := range sch.Fields {
		window := data[offset : offset+field.Size]
		offset += field.Size

		value, err := deserializeField(window, field)
		if err != nil {
			return nil, err
		}
		record[field.Name] = value
	}

	return record, nil
}

func deserializeField(window []byte, field schema.Field) (any, error) {
	switch {
	case schema.IsIntegerFamily(field.Type):
		return deserializeInteger(window), nil
	case schema.IsDecimalFamily(field.Type):
		return deserializeDecimal(window, field), nil
	case schema.IsBoolFamily(field.Type):
		return window[0] != 0, nil
	case schema.IsStringFamily(field.Type):
		return deserializeString(window), nil
	default:
		return deserializeString(window), nil
	}
}

func deserializeInteger(window []byte) int64 {
	switch len(window) {
	case 1:
		return int64(int8(window[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(window)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(window)))
	default:
		return int64(binary.LittleEndian.Uint64(window))
	}
}

func deserializeDecimal(window []byte, field schema.Field) float64 {
	if field.Type == schema.Float {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(window)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(window))
}

func deserializeString(window []byte) any {
	isZero := true
	for _, b := range window {
		if b != 0 {
			isZero = false
			break
		}
	}
	if isZero {
		return nil
	}
	return strings.TrimRight(string(window), " ")
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	default:
		return false, false
	}
}
