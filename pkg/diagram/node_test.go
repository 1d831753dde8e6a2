package diagram

import (
	"testing"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

func modelWithFields(fields ...schema.Field) schema.Model {
	return schema.Model{Fields: fields}
}

func namedFields(names ...string) []schema.Field {
	fields := make([]schema.Field, len(names))
	for i, n := range names {
		fields[i] = schema.Field{Name: n, Type: "CharField"}
	}
	return fields
}

func TestNodeHeight(t *testing.T) {
	tests := []struct {
		fields int
		want   float64
	}{
		{0, 66},
		{1, 94},
		{3, 150},
		{5, 206},
		{6, 230},
		{12, 230},
	}
	for _, tt := range tests {
		m := modelWithFields(namedFields(make([]string, tt.fields)...)...)
		if got := NodeHeight(m); got != tt.want {
			t.Errorf("NodeHeight(%d fields) = %v, want %v", tt.fields, got, tt.want)
		}
	}
}

func TestNodeHeightMonotone(t *testing.T) {
	prev := NodeHeight(schema.Model{})
	names := []string{}
	for i := 0; i < 10; i++ {
		names = append(names, "f")
		h := NodeHeight(modelWithFields(namedFields(names...)...))
		if h < prev {
			t.Fatalf("height decreased from %v to %v at %d fields", prev, h, i+1)
		}
		prev = h
	}
}

func TestFieldYOffset(t *testing.T) {
	m := modelWithFields(namedFields("id", "author_id", "title", "editor", "body", "hidden")...)

	tests := []struct {
		rel  string
		want float64
	}{
		{"author", 100},    // matches author_id by suffix
		{"author_id", 100}, // exact match
		{"editor", 156},    // exact match
		{"editor_id", 156}, // matches editor with _id stripped
		{"missing", 72},    // fallback midpoint
		{"hidden", 72},     // beyond the visible window
	}
	for _, tt := range tests {
		if got := FieldYOffset(m, tt.rel); got != tt.want {
			t.Errorf("FieldYOffset(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestPKYOffset(t *testing.T) {
	m := schema.Model{Fields: []schema.Field{
		{Name: "slug"},
		{Name: "id", PrimaryKey: true},
	}}
	if got := PKYOffset(m); got != 100 {
		t.Errorf("PKYOffset = %v, want 100", got)
	}

	noPK := modelWithFields(namedFields("a", "b")...)
	if got := PKYOffset(noPK); got != 72 {
		t.Errorf("PKYOffset without primary key = %v, want 72", got)
	}

	latePK := schema.Model{Fields: append(namedFields("a", "b", "c", "d", "e"),
		schema.Field{Name: "id", PrimaryKey: true})}
	if got := PKYOffset(latePK); got != 72 {
		t.Errorf("PKYOffset with primary key beyond visible window = %v, want 72", got)
	}
}
