package engine

import (
	"regexp"
	"strconv"
	"strings"

	"diskvault/pkg/errors"
	"diskvault/pkg/schema"
)

// typePatterns give the accepted textual format for each field type family,
// checked before any numeric or boolean conversion is attempted. String
// family types other than DATE/DATETIME accept anything, since CHAR/
// VARCHAR/TEXT have no format constraint beyond their declared width.
var typePatterns = map[schema.FieldType]*regexp.Regexp{
	schema.Integer:  regexp.MustCompile(`^-?\d+$`),
	schema.Int:      regexp.MustCompile(`^-?\d+$`),
	schema.BigInt:   regexp.MustCompile(`^-?\d+$`),
	schema.SmallInt: regexp.MustCompile(`^-?\d+$`),
	schema.TinyInt:  regexp.MustCompile(`^-?\d+$`),
	schema.Decimal:  regexp.MustCompile(`^-?\d+(\.\d+)?$`),
	schema.Float:    regexp.MustCompile(`^-?\d+(\.\d+)?$`),
	schema.Double:   regexp.MustCompile(`^-?\d+(\.\d+)?$`),
	schema.Date:     regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	schema.DateTime: regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`),
	schema.Boolean:  regexp.MustCompile(`(?i)^(true|false|1|0|yes|no)$`),
	schema.Bool:     regexp.MustCompile(`(?i)^(true|false|1|0|yes|no)$`),
}

// validateRow converts a row of raw string field values into the typed
// values internal/codec expects, checking each present value against its
// field's format and each absent value against its field's nullability.
func validateRow(row map[string]string, sch *schema.Schema) (map[string]any, error) {
	validated := make(map[string]any, len(sch.Fields))

	for _, field := range sch.Fields {
		raw, present := row[field.Name]
		raw = strings.TrimSpace(raw)

		if !present || raw == "" {
			if !field.Nullable {
				return nil, errors.NewNullViolationError(field.Name, string(field.Type))
			}
			validated[field.Name] = nil
			continue
		}

		pattern, ok := typePatterns[field.Type]
		if ok && !pattern.MatchString(raw) {
			return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), raw)
		}

		value, err := convertValue(raw, field)
		if err != nil {
			return nil, err
		}
		validated[field.Name] = value
	}

	return validated, nil
}

func convertValue(raw string, field schema.Field) (any, error) {
	switch {
	case schema.IsIntegerFamily(field.Type):
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), raw)
		}
		return n, nil

	case schema.IsDecimalFamily(field.Type):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), raw)
		}
		return f, nil

	case schema.IsBoolFamily(field.Type):
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		default:
			return nil, errors.NewTypeMismatchError(field.Name, string(field.Type), raw)
		}

	default: // string family, including DATE/DATETIME which are kept as text
		return raw, nil
	}
}
