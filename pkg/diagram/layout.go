package diagram

import (
	"github.com/jonasreimer/schemascope/pkg/diagram/route"
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// FanStep is the vertical spacing between the target anchors of parallel
// incoming edges.
const FanStep = 12

// Layout is the complete geometric result of one layout pass: the
// connection graph, the grid assignment, pixel positions, and one route
// per edge.
type Layout struct {
	Graph     *Graph
	Columns   map[string]int
	Rows      map[string]int
	Positions map[string]Position
	Routes    []route.Route
}

// Compute runs the full layout pipeline on a schema: graph construction,
// column and row assignment, position mapping, and edge routing. The
// result is deterministic for a given schema.
func Compute(s *schema.Schema) *Layout {
	g := BuildGraph(s)
	cols := assignColumns(g)
	rows := assignRows(g, cols)

	l := &Layout{
		Graph:     g,
		Columns:   cols,
		Rows:      rows,
		Positions: mapPositions(g, cols, rows),
	}
	l.routeEdges()
	return l
}

// Bounds returns the bounding box of a node, or false when the node has no
// position.
func (l *Layout) Bounds(key string) (route.Bounds, bool) {
	pos, ok := l.Positions[key]
	if !ok {
		return route.Bounds{}, false
	}
	node := l.Graph.Nodes[key]
	h := DefaultNodeHeight
	if node != nil {
		h = int(node.Height)
	}
	return route.NewBounds(pos.X, pos.Y, NodeWidth, float64(h)), true
}

// NodeBounds returns the bounding boxes of all positioned nodes.
func (l *Layout) NodeBounds() map[string]route.Bounds {
	bounds := make(map[string]route.Bounds, len(l.Positions))
	for key := range l.Positions {
		if b, ok := l.Bounds(key); ok {
			bounds[key] = b
		}
	}
	return bounds
}

// MoveNode sets one node's position and recomputes every route against the
// new geometry. Columns and rows keep their previous assignment; a drag
// never re-runs placement.
func (l *Layout) MoveNode(key string, pos Position) {
	if _, ok := l.Positions[key]; !ok {
		return
	}
	l.Positions[key] = pos
	l.routeEdges()
}

// routeEdges derives the anchor of every edge and routes all edges in
// graph order.
func (l *Layout) routeEdges() {
	fan := l.fanOffsets()

	reqs := make([]route.Request, 0, len(l.Graph.Edges))
	for _, e := range l.Graph.Edges {
		srcPos, okS := l.Positions[e.Source]
		tgtPos, okT := l.Positions[e.Target]
		if !okS || !okT {
			continue
		}
		src := l.Graph.Nodes[e.Source]
		tgt := l.Graph.Nodes[e.Target]
		reqs = append(reqs, route.Request{
			Source: e.Source,
			Target: e.Target,
			Name:   e.Rel.Name,
			Kind:   e.Rel.Type,
			StartY: srcPos.Y + FieldYOffset(src.Model, e.Rel.Name),
			EndY:   tgtPos.Y + PKYOffset(tgt.Model) + fan[e],
		})
	}

	router := route.NewRouter(l.NodeBounds())
	l.Routes = router.Plan(reqs)
}

// fanOffsets spreads the incoming edges of every target so that parallel
// connections do not land on the same anchor. For k incoming edges the
// i-th, in insertion order, is shifted by (i - (k-1)/2) steps; the offsets
// of one target always sum to zero.
func (l *Layout) fanOffsets() map[*Edge]float64 {
	incoming := map[string][]*Edge{}
	for _, e := range l.Graph.Edges {
		incoming[e.Target] = append(incoming[e.Target], e)
	}

	offsets := make(map[*Edge]float64, len(l.Graph.Edges))
	for _, edges := range incoming {
		k := len(edges)
		for i, e := range edges {
			offsets[e] = (float64(i) - float64(k-1)/2) * FanStep
		}
	}
	return offsets
}
