package diagram

import (
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// Edge is a directed forward relationship between two distinct nodes.
type Edge struct {
	// Source and Target are node keys. Source != Target; self references
	// never become edges.
	Source string
	Target string

	// Rel is the source model's own relationship record. Its Direction is
	// always forward.
	Rel schema.Relationship
}

// Graph is the connection structure of a diagram: one node per model and
// one edge per deduplicated forward relationship between distinct models.
type Graph struct {
	// Nodes maps node key to node.
	Nodes map[string]*Node

	// Order lists node keys in the deterministic build order (sorted app
	// label, then sorted model name). Every stage that iterates nodes uses
	// this order.
	Order []string

	// Edges lists edges in insertion order: source nodes in Order, each
	// source's relationships in declaration order. Routing and fan offsets
	// depend on this order.
	Edges []*Edge
}

// BuildGraph constructs the connection graph for a schema. Relationships
// with a missing target model are dropped. Duplicate (source, target,
// relationship name) triples collapse to the first occurrence.
func BuildGraph(s *schema.Schema) *Graph {
	g := &Graph{Nodes: map[string]*Node{}}

	for _, label := range s.AppLabels() {
		app := s.Apps[label]
		for _, name := range app.ModelNames() {
			key := schema.Key(label, name)
			g.Nodes[key] = &Node{
				Key:         key,
				App:         label,
				Name:        name,
				Model:       app.Models[name],
				Height:      NodeHeight(app.Models[name]),
				Outgoing:    map[string]bool{},
				Incoming:    map[string]bool{},
				Connections: map[string]bool{},
			}
			g.Order = append(g.Order, key)
		}
	}

	seen := map[[3]string]bool{}
	for _, key := range g.Order {
		node := g.Nodes[key]
		for _, rel := range node.Model.Relationships {
			if rel.Direction != schema.DirectionForward {
				continue
			}
			target := schema.Key(rel.TargetApp, rel.TargetModel)
			if target == key {
				node.HasSelfConnection = true
				continue
			}
			tnode, ok := g.Nodes[target]
			if !ok {
				continue
			}
			id := [3]string{key, target, rel.Name}
			if seen[id] {
				continue
			}
			seen[id] = true

			g.Edges = append(g.Edges, &Edge{Source: key, Target: target, Rel: rel})
			node.Outgoing[target] = true
			if !node.Connections[target] {
				node.Connections[target] = true
				node.ConnectionOrder = append(node.ConnectionOrder, target)
			}
			tnode.Incoming[key] = true
			if !tnode.Connections[key] {
				tnode.Connections[key] = true
				tnode.ConnectionOrder = append(tnode.ConnectionOrder, key)
			}
		}
	}

	return g
}

// Node returns the node with the given key, or nil.
func (g *Graph) Node(key string) *Node { return g.Nodes[key] }

// IncomingEdges returns the edges pointing at the given node, in edge
// insertion order. The fan offsets of a node's incoming connections follow
// this order.
func (g *Graph) IncomingEdges(key string) []*Edge {
	var in []*Edge
	for _, e := range g.Edges {
		if e.Target == key {
			in = append(in, e)
		}
	}
	return in
}

// Hub returns the key of the node with the greatest connection count, or
// the empty string for an empty graph. Ties resolve to the earlier node in
// build order.
func (g *Graph) Hub() string {
	best, bestCount := "", -1
	for _, key := range g.Order {
		if n := g.Nodes[key]; len(n.Connections) > bestCount {
			best, bestCount = key, len(n.Connections)
		}
	}
	return best
}
