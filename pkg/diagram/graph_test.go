package diagram

import (
	"testing"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

func fk(name, targetApp, targetModel string) schema.Relationship {
	return schema.Relationship{
		Name:        name,
		Type:        schema.RelForeignKey,
		Direction:   schema.DirectionForward,
		TargetApp:   targetApp,
		TargetModel: targetModel,
	}
}

func singleApp(models map[string]schema.Model) *schema.Schema {
	return &schema.Schema{Apps: map[string]schema.App{
		"app": {VerboseName: "App", Models: models},
	}}
}

func pkField() schema.Field {
	return schema.Field{Name: "id", Type: "AutoField", PrimaryKey: true}
}

func TestBuildGraph(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"post": {
			Fields:        []schema.Field{pkField(), {Name: "author_id", Type: "ForeignKey"}},
			Relationships: []schema.Relationship{fk("author", "app", "user")},
		},
		"user": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	if len(g.Order) != 2 {
		t.Fatalf("node count = %d, want 2", len(g.Order))
	}
	if g.Order[0] != "app.post" || g.Order[1] != "app.user" {
		t.Errorf("order = %v, want [app.post app.user]", g.Order)
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if e.Source != "app.post" || e.Target != "app.user" || e.Rel.Name != "author" {
		t.Errorf("edge = %+v", e)
	}
	if !g.Nodes["app.post"].Outgoing["app.user"] {
		t.Error("post should have user in outgoing")
	}
	if !g.Nodes["app.user"].Incoming["app.post"] {
		t.Error("user should have post in incoming")
	}
	if !g.Nodes["app.user"].Connections["app.post"] || !g.Nodes["app.post"].Connections["app.user"] {
		t.Error("connections should contain both endpoints")
	}
}

func TestBuildGraphSelfReference(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"node": {
			Fields:        []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("parent", "app", "node")},
		},
	})

	g := BuildGraph(s)
	if len(g.Edges) != 0 {
		t.Fatalf("self reference must not create an edge, got %d", len(g.Edges))
	}
	if !g.Nodes["app.node"].HasSelfConnection {
		t.Error("HasSelfConnection not set")
	}
}

func TestBuildGraphMissingTarget(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"post": {
			Fields:        []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("author", "gone", "user")},
		},
	})

	g := BuildGraph(s)
	if len(g.Edges) != 0 {
		t.Fatalf("missing target must be dropped, got %d edges", len(g.Edges))
	}
}

func TestBuildGraphDeduplicates(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"post": {
			Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{
				fk("author", "app", "user"),
				fk("author", "app", "user"),
				fk("editor", "app", "user"),
			},
		},
		"user": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	if len(g.Edges) != 2 {
		t.Fatalf("edge count = %d, want 2 (author deduplicated, editor kept)", len(g.Edges))
	}
}

func TestBuildGraphIgnoresReverse(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"user": {
			Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{{
				Name: "posts", Type: schema.RelForeignKey,
				Direction: schema.DirectionReverse,
				TargetApp: "app", TargetModel: "post",
			}},
		},
		"post": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	if len(g.Edges) != 0 {
		t.Fatalf("reverse relationships must not create edges, got %d", len(g.Edges))
	}
}

func TestHub(t *testing.T) {
	s := singleApp(map[string]schema.Model{
		"a": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("t", "app", "t")}},
		"b": {Fields: []schema.Field{pkField()},
			Relationships: []schema.Relationship{fk("t", "app", "t")}},
		"t": {Fields: []schema.Field{pkField()}},
	})

	g := BuildGraph(s)
	if hub := g.Hub(); hub != "app.t" {
		t.Errorf("Hub = %q, want app.t", hub)
	}
}
