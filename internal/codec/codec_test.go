package codec

import (
	"math"
	"testing"

	"diskvault/pkg/schema"
)

func testSchema() *schema.Schema {
	fields := []schema.Field{
		{Name: "id", Type: schema.BigInt, Size: 8, Nullable: false},
		{Name: "age", Type: schema.TinyInt, Size: 1, Nullable: true},
		{Name: "score", Type: schema.Double, Size: 8, Nullable: true},
		{Name: "active", Type: schema.Boolean, Size: 1, Nullable: false},
		{Name: "name", Type: schema.Varchar, Size: 10, Nullable: true},
	}
	size := 0
	for _, f := range fields {
		size += f.Size
	}
	return &schema.Schema{TableName: "t", PrimaryKey: "id", Fields: fields, RecordSize: size}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	sch := testSchema()

	values := map[string]any{
		"id":     int64(42),
		"age":    int64(30),
		"score":  3.5,
		"active": true,
		"name":   "alice",
	}

	data, err := Serialize(values, sch)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if len(data) != sch.RecordSize {
		t.Fatalf("Serialize() produced %d bytes, want %d", len(data), sch.RecordSize)
	}

	got, err := Deserialize(data, sch)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	if got["id"].(int64) != 42 {
		t.Errorf("id = %v, want 42", got["id"])
	}
	if got["age"].(int64) != 30 {
		t.Errorf("age = %v, want 30", got["age"])
	}
	if got["score"].(float64) != 3.5 {
		t.Errorf("score = %v, want 3.5", got["score"])
	}
	if got["active"].(bool) != true {
		t.Errorf("active = %v, want true", got["active"])
	}
	if got["name"].(string) != "alice" {
		t.Errorf("name = %q, want %q", got["name"], "alice")
	}
}

func TestSerializeNullFieldIsZeroWindow(t *testing.T) {
	sch := testSchema()
	values := map[string]any{"id": int64(1), "active": false}

	data, err := Serialize(values, sch)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	got, err := Deserialize(data, sch)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if got["name"] != nil {
		t.Errorf("name = %v, want nil for an omitted nullable field", got["name"])
	}
	if got["score"] != float64(0) {
		t.Errorf("score = %v, want 0 for an omitted nullable numeric field (only string fields decode as nil)", got["score"])
	}
}

func TestSerializeMissingNonNullableFieldErrors(t *testing.T) {
	sch := testSchema()
	values := map[string]any{"active": true} // missing required "id"

	if _, err := Serialize(values, sch); err == nil {
		t.Error("Serialize() should fail when a non-nullable field is missing")
	}
}

func TestSerializeStringTruncatesAndPads(t *testing.T) {
	sch := testSchema()
	values := map[string]any{
		"id":     int64(1),
		"active": true,
		"name":   "this name is far too long",
	}

	data, err := Serialize(values, sch)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	got, err := Deserialize(data, sch)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if got["name"].(string) != "this name" {
		t.Errorf("name = %q, want truncated to field width with trailing spaces stripped", got["name"])
	}
}

func TestSerializeIntegerOutOfRangeErrors(t *testing.T) {
	sch := testSchema()
	values := map[string]any{
		"id":     int64(1),
		"active": true,
		"age":    int64(1000), // TinyInt range is -128..127
	}

	if _, err := Serialize(values, sch); err == nil {
		t.Error("Serialize() should reject an out-of-range integer value")
	}
}

func TestFloatRoundTripPreservesBits(t *testing.T) {
	sch := &schema.Schema{
		TableName: "t", PrimaryKey: "id",
		Fields: []schema.Field{
			{Name: "id", Type: schema.Integer, Size: 4, Nullable: false},
			{Name: "f", Type: schema.Float, Size: 4, Nullable: false},
		},
		RecordSize: 8,
	}
	values := map[string]any{"id": int64(1), "f": math.Pi}

	data, err := Serialize(values, sch)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	got, err := Deserialize(data, sch)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}

	if got["f"].(float64) != float64(float32(math.Pi)) {
		t.Errorf("f = %v, want exactly %v (float32 bits preserved)", got["f"], float32(math.Pi))
	}
}

func TestDeserializeRejectsWrongLength(t *testing.T) {
	sch := testSchema()
	if _, err := Deserialize(make([]byte, sch.RecordSize-1), sch); err == nil {
		t.Error("Deserialize() should reject data of the wrong length")
	}
}
