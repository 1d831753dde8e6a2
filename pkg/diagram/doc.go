// Package diagram computes the grid layout of an entity-relationship
// diagram.
//
// From a [schema.Schema] it builds a connection graph (one node per model,
// one edge per forward relationship between distinct models), assigns each
// node a column expressing dependency depth and a row chosen so that
// related nodes are co-located, maps the grid to pixel positions, and
// finally asks [route] to produce an orthogonal polyline per edge.
//
// The whole pass is deterministic: map-shaped schema input is iterated in
// sorted key order, and every later stage consumes the node order fixed by
// [BuildGraph]. Running [Compute] twice on the same schema yields identical
// positions and routes.
package diagram
