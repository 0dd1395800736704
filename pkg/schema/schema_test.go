package schema

import "testing"

func TestFieldSizeScalesOnlyStringFamilyByLength(t *testing.T) {
	tests := []struct {
		fieldType      FieldType
		declaredLength int
		want           int
	}{
		{Varchar, 20, 20},
		{Char, 5, 5},
		{Varchar, 0, 1},
		{BigInt, 100, 8}, // declared length ignored for non-string types
		{Integer, 0, 4},
	}
	for _, tt := range tests {
		if got := FieldSize(tt.fieldType, tt.declaredLength); got != tt.want {
			t.Errorf("FieldSize(%s, %d) = %d, want %d", tt.fieldType, tt.declaredLength, got, tt.want)
		}
	}
}

func TestPrimaryKeyIsString(t *testing.T) {
	intSch := &Schema{
		TableName: "t", PrimaryKey: "id",
		Fields: []Field{{Name: "id", Type: Integer}},
	}
	isString, err := intSch.PrimaryKeyIsString()
	if err != nil {
		t.Fatalf("PrimaryKeyIsString() error = %v", err)
	}
	if isString {
		t.Error("PrimaryKeyIsString() = true, want false for an integer key")
	}

	strSch := &Schema{
		TableName: "t", PrimaryKey: "code",
		Fields: []Field{{Name: "code", Type: Varchar}},
	}
	isString, err = strSch.PrimaryKeyIsString()
	if err != nil {
		t.Fatalf("PrimaryKeyIsString() error = %v", err)
	}
	if !isString {
		t.Error("PrimaryKeyIsString() = false, want true for a varchar key")
	}
}

func TestPrimaryKeyIsStringRejectsUnsupportedType(t *testing.T) {
	sch := &Schema{
		TableName: "t", PrimaryKey: "amount",
		Fields: []Field{{Name: "amount", Type: Double}},
	}
	if _, err := sch.PrimaryKeyIsString(); err == nil {
		t.Error("PrimaryKeyIsString() should reject a decimal primary key")
	}
}

func TestPrimaryKeyIsStringRejectsUndeclaredField(t *testing.T) {
	sch := &Schema{TableName: "t", PrimaryKey: "missing", Fields: []Field{{Name: "id", Type: Integer}}}
	if _, err := sch.PrimaryKeyIsString(); err == nil {
		t.Error("PrimaryKeyIsString() should error when the primary key field isn't declared")
	}
}

func TestFieldByNameAndPrimaryKeyField(t *testing.T) {
	sch := &Schema{
		TableName: "t", PrimaryKey: "id",
		Fields: []Field{{Name: "id", Type: Integer}, {Name: "name", Type: Varchar}},
	}

	if _, ok := sch.FieldByName("missing"); ok {
		t.Error("FieldByName() should report not found for an undeclared field")
	}
	pk, ok := sch.PrimaryKeyField()
	if !ok || pk.Name != "id" {
		t.Errorf("PrimaryKeyField() = %+v, %v", pk, ok)
	}
}
