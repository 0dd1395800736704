package rowsrc

import (
	"strings"
	"testing"

	"diskvault/pkg/schema"
)

func TestLoadCommaDelimited(t *testing.T) {
	input := "ID,Name,Age\n1,alice,30\n2,bob,40\n"
	rows, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0]["id"] != "1" || rows[0]["name"] != "alice" || rows[0]["age"] != "30" {
		t.Errorf("rows[0] = %+v", rows[0])
	}
}

func TestLoadDetectsSemicolonDelimiter(t *testing.T) {
	input := "id;name\n1;alice\n"
	rows, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "alice" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestLoadDetectsPipeDelimiter(t *testing.T) {
	input := "id|name\n7|carol\n"
	rows, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "7" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestLoadCleansQuotesAndWhitespace(t *testing.T) {
	input := "id,name\n1,  \"alice\"  \n"
	rows, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rows[0]["name"] != "alice" {
		t.Errorf("name = %q, want %q", rows[0]["name"], "alice")
	}
}

func TestLoadLowercasesHeader(t *testing.T) {
	input := "ID,Full Name\n1,alice\n"
	rows, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := rows[0]["id"]; !ok {
		t.Error("header should be lowercased to \"id\"")
	}
}

func TestLoadEmptyInputReturnsNoRows(t *testing.T) {
	rows, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil", rows)
	}
}

func TestMissingFieldsReportsAbsentColumns(t *testing.T) {
	sch := &schema.Schema{Fields: []schema.Field{{Name: "id"}, {Name: "email"}}}
	rows := []map[string]string{{"id": "1"}}

	missing := MissingFields(rows, sch)
	if len(missing) != 1 || missing[0] != "email" {
		t.Errorf("MissingFields() = %v, want [email]", missing)
	}
}

func TestExtraFieldsReportsUnexpectedColumns(t *testing.T) {
	sch := &schema.Schema{Fields: []schema.Field{{Name: "id"}}}
	rows := []map[string]string{{"id": "1", "extra": "x"}}

	extra := ExtraFields(rows, sch)
	if len(extra) != 1 || extra[0] != "extra" {
		t.Errorf("ExtraFields() = %v, want [extra]", extra)
	}
}
