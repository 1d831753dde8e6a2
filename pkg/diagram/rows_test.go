package diagram

import (
	"testing"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

func TestAssignRowsChainAligns(t *testing.T) {
	// a -> b -> c: each node prefers its connection's row, so the whole
	// chain lands on one backbone row.
	s := singleApp(map[string]schema.Model{
		"a": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("b", "app", "b")}},
		"b": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("c", "app", "c")}},
		"c": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	cols := assignColumns(g)
	rows := assignRows(g, cols)
	for _, key := range g.Order {
		if rows[key] != 0 {
			t.Errorf("row(%s) = %d, want 0", key, rows[key])
		}
	}
}

func TestAssignRowsDiamond(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"a": {Fields: []schema.Field{pkField()}},
		"b": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("a", "app", "a")}},
		"c": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("a", "app", "a")}},
		"d": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("b", "app", "b"), fk("c", "app", "c")}},
	})

	g := BuildGraph(s)
	cols := assignColumns(g)
	rows := assignRows(g, cols)

	if rows["app.b"] == rows["app.c"] {
		t.Errorf("b and c share row %d; multi-connected non-neighbours must not co-locate", rows["app.b"])
	}
	if rows["app.a"] != 0 {
		t.Errorf("row(a) = %d, want 0", rows["app.a"])
	}
	if d := rows["app.d"]; d != rows["app.b"] && d != rows["app.c"] {
		t.Errorf("row(d) = %d, want the row of b (%d) or c (%d)", d, rows["app.b"], rows["app.c"])
	}
}

func TestAssignRowsDistinctWithinColumn(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"a": {Fields: []schema.Field{pkField()}},
		"b": {Fields: []schema.Field{pkField()}},
		"c": {Fields: []schema.Field{pkField()}},
		"d": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	cols := assignColumns(g)
	rows := assignRows(g, cols)

	seen := map[[2]int]string{}
	for _, key := range g.Order {
		cell := [2]int{cols[key], rows[key]}
		if other, dup := seen[cell]; dup {
			t.Errorf("%s and %s share cell %v", key, other, cell)
		}
		seen[cell] = key
	}
}

func TestAssignRowsCompacted(t *testing.T) {
	models := map[string]schema.Model{}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		models[name] = schema.Model{Fields: []schema.Field{pkField()}}
	}
	models["a"] = schema.Model{Fields: []schema.Field{pkField()},
		Relationships: []schema.Relationship{fk("b", "app", "b")}}

	g := BuildGraph(singleApp(models))
	cols := assignColumns(g)
	rows := assignRows(g, cols)

	used := map[int]bool{}
	maxRow := 0
	for _, r := range rows {
		used[r] = true
		maxRow = max(maxRow, r)
	}
	for r := 0; r <= maxRow; r++ {
		if !used[r] {
			t.Errorf("row %d unused after compaction (used: %v)", r, rows)
		}
	}
}

func TestCompactRows(t *testing.T) {
	got := compactRows(map[string]int{"a": 2, "b": 5, "c": 2, "d": 9})
	want := map[string]int{"a": 0, "b": 1, "c": 0, "d": 2}
	for key, w := range want {
		if got[key] != w {
			t.Errorf("compacted row(%s) = %d, want %d", key, got[key], w)
		}
	}
}

func TestAssignRowsFullCycleDistinctRows(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"a": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("b", "app", "b")}},
		"b": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("a", "app", "a")}},
	})

	g := BuildGraph(s)
	cols := assignColumns(g)
	rows := assignRows(g, cols)
	if rows["app.a"] == rows["app.b"] {
		t.Errorf("cycle nodes share column 0 and must take distinct rows, both got %d", rows["app.a"])
	}
}
