// Package rowsrc loads rows of raw string field values from a delimited
// text file, auto-detecting the delimiter in use. MissingFields and
// ExtraFields report columns the target schema declares but the rows lack,
// and columns the rows carry but the schema does not declare.
package rowsrc

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"diskvault/pkg/errors"
	"diskvault/pkg/schema"
)

// candidateDelimiters are tried in order; whichever appears most often in
// the first 1024 bytes of input wins, ties going to the earlier candidate.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Load reads every row of a delimited file into a slice of raw
// field-name-to-value maps, keyed by the lowercased, trimmed header name.
func Load(r io.Reader) ([]map[string]string, error) {
	buffered := bufio.NewReader(r)

	sample, err := buffered.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to sample row source")
	}

	delimiter := detectDelimiter(string(sample))

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read row source header")
	}
	for i, h := range header {
		header[i] = cleanHeader(h)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read row")
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = cleanField(record[i])
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return s
}

func cleanHeader(s string) string {
	return strings.ToLower(cleanField(s))
}

func detectDelimiter(sample string) rune {
	best := candidateDelimiters[0]
	bestCount := -1
	for _, d := range candidateDelimiters {
		count := strings.Count(sample, string(d))
		if count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}

// MissingFields reports which of the schema's fields are absent from the
// header of the loaded rows. An empty rows slice reports every field missing.
func MissingFields(rows []map[string]string, sch *schema.Schema) []string {
	present := map[string]bool{}
	if len(rows) > 0 {
		for k := range rows[0] {
			present[k] = true
		}
	}

	var missing []string
	for _, f := range sch.Fields {
		if !present[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// ExtraFields reports which columns present in the loaded rows are not
// declared by the schema — informational only, since extra columns are
// ignored rather than rejected.
func ExtraFields(rows []map[string]string, sch *schema.Schema) []string {
	if len(rows) == 0 {
		return nil
	}

	expected := map[string]bool{}
	for _, f := range sch.Fields {
		expected[f.Name] = true
	}

	var extra []string
	for k := range rows[0] {
		if !expected[k] {
			extra = append(extra, k)
		}
	}
	return extra
}
