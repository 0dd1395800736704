// Package ddl parses the small CREATE TABLE subset diskvault accepts as a
// schema definition, producing a pkg/schema.Schema a Coordinator can load.
package ddl

import (
	"regexp"
	"strconv"
	"strings"

	"diskvault/pkg/errors"
	"diskvault/pkg/schema"
)

var (
	createTablePattern  = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+(\w+)`)
	columnsPattern      = regexp.MustCompile(`(?is)\((.*)\)`)
	columnDefPattern    = regexp.MustCompile(`(?i)^(\w+)\s+(\w+)(?:\(([^)]+)\))?\s*(.*)$`)
	primaryKeyPattern   = regexp.MustCompile(`(?i)PRIMARY\s+KEY\s*\(([^)]+)\)`)
	lineCommentPattern  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// Parse reads a CREATE TABLE statement and produces a Schema.
func Parse(sql string) (*schema.Schema, error) {
	normalized := normalize(sql)

	tableMatch := createTablePattern.FindStringSubmatch(normalized)
	if tableMatch == nil {
		return nil, errors.NewFieldFormatError("sql", sql, "CREATE TABLE <name> (...)")
	}
	tableName := tableMatch[1]

	columnsMatch := columnsPattern.FindStringSubmatch(normalized)
	if columnsMatch == nil {
		return nil, errors.NewFieldFormatError("sql", sql, "column list in parentheses")
	}
	columnsDef := columnsMatch[1]

	fields, err := parseColumns(columnsDef)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.NewFieldFormatError("sql", sql, "at least one column")
	}

	primaryKey, err := findPrimaryKey(columnsDef, fields)
	if err != nil {
		return nil, err
	}

	recordSize := 0
	for _, f := range fields {
		recordSize += f.Size
	}

	return &schema.Schema{
		TableName:  tableName,
		PrimaryKey: primaryKey,
		Fields:     fields,
		RecordSize: recordSize,
	}, nil
}

// normalize strips SQL comments and collapses whitespace, mirroring the
// reference parser's preprocessing step.
func normalize(sql string) string {
	sql = lineCommentPattern.ReplaceAllString(sql, "")
	sql = blockCommentPattern.ReplaceAllString(sql, "")
	sql = whitespacePattern.ReplaceAllString(sql, " ")
	return strings.TrimSpace(sql)
}

// splitColumnDefinitions splits a column list on top-level commas, treating
// commas nested inside parentheses (e.g. a VARCHAR(40) length or a
// PRIMARY KEY(col) clause) as part of the current column definition.
func splitColumnDefinitions(columnsDef string) []string {
	var result []string
	var current strings.Builder
	parenDepth := 0

	for _, ch := range columnsDef {
		switch ch {
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		case ',':
			if parenDepth == 0 {
				result = append(result, strings.TrimSpace(current.String()))
				current.Reset()
				continue
			}
		}
		current.WriteRune(ch)
	}
	if strings.TrimSpace(current.String()) != "" {
		result = append(result, strings.TrimSpace(current.String()))
	}
	return result
}

func parseColumns(columnsDef string) ([]schema.Field, error) {
	var fields []schema.Field

	for _, colDef := range splitColumnDefinitions(columnsDef) {
		colDef = strings.TrimSpace(colDef)
		if colDef == "" {
			continue
		}

		upper := strings.ToUpper(colDef)
		if strings.HasPrefix(upper, "PRIMARY") {
			continue
		}
		if strings.HasPrefix(upper, "KEY") || strings.HasPrefix(upper, "FOREIGN") ||
			strings.HasPrefix(upper, "UNIQUE") || strings.HasPrefix(upper, "INDEX") {
			continue
		}

		field, err := parseColumnDefinition(colDef)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	return fields, nil
}

func parseColumnDefinition(colDef string) (schema.Field, error) {
	match := columnDefPattern.FindStringSubmatch(colDef)
	if match == nil {
		return schema.Field{}, errors.NewFieldFormatError("column", colDef, "<name> <type>[(length)] [constraints]")
	}

	name := match[1]
	fieldType := schema.FieldType(strings.ToUpper(match[2]))
	lengthStr := match[3]
	constraints := strings.ToUpper(match[4])

	declaredLength := 0
	if lengthStr != "" {
		n, err := strconv.Atoi(lengthStr)
		if err == nil {
			declaredLength = n
		}
	}

	return schema.Field{
		Name:        name,
		Type:        fieldType,
		Size:        schema.FieldSize(fieldType, declaredLength),
		Nullable:    !strings.Contains(constraints, "NOT NULL"),
		Constraints: constraints,
	}, nil
}

func findPrimaryKey(columnsDef string, fields []schema.Field) (string, error) {
	if m := primaryKeyPattern.FindStringSubmatch(columnsDef); m != nil {
		return strings.TrimSpace(m[1]), nil
	}

	for _, f := range fields {
		if strings.Contains(f.Constraints, "PRIMARY KEY") {
			return f.Name, nil
		}
	}

	if len(fields) > 0 {
		return fields[0].Name, nil
	}

	return "", errors.NewFieldFormatError("sql", columnsDef, "a primary key")
}
