package diagram

import (
	"slices"
)

// gridCell addresses one (column, row) slot of the layout grid.
type gridCell struct {
	col, row int
}

// assignRows places every node in a row of its column. Nodes prefer rows
// already holding one of their connections, so that the horizontal legs of
// their edges stay short; heavily connected nodes are placed first and form
// the backbones the rest aligns to. Used row indices are renumbered densely
// from zero before returning.
func assignRows(g *Graph, cols map[string]int) map[string]int {
	byColumn := map[int][]string{}
	maxCol := 0
	for _, key := range g.Order {
		c := cols[key]
		byColumn[c] = append(byColumn[c], key)
		maxCol = max(maxCol, c)
	}

	rows := map[string]int{}
	occupied := map[gridCell]bool{}
	rowMembers := map[int][]string{}
	nextRow := 0

	place := func(key string, col, row int) {
		rows[key] = row
		occupied[gridCell{col, row}] = true
		rowMembers[row] = append(rowMembers[row], key)
		nextRow = max(nextRow, row+1)
	}

	admits := func(key string, col, row int) bool {
		if occupied[gridCell{col, row}] {
			return false
		}
		node := g.Nodes[key]
		if len(node.Connections) <= 1 {
			for conn := range node.Connections {
				r, placed := rows[conn]
				if !placed || r != row {
					continue
				}
				if d := cols[conn] - col; d != 1 && d != -1 {
					return false
				}
			}
			return true
		}
		for _, other := range rowMembers[row] {
			if node.Connections[other] {
				continue
			}
			if o := g.Nodes[other]; o.HasSelfConnection {
				continue
			}
			return false
		}
		return true
	}

	for col := 0; col <= maxCol; col++ {
		keys := slices.Clone(byColumn[col])
		slices.SortStableFunc(keys, func(a, b string) int {
			return len(g.Nodes[b].Connections) - len(g.Nodes[a].Connections)
		})

		for _, key := range keys {
			node := g.Nodes[key]

			placed := false
			for _, conn := range node.ConnectionOrder {
				r, ok := rows[conn]
				if !ok {
					continue
				}
				if admits(key, col, r) {
					place(key, col, r)
					placed = true
					break
				}
			}
			if placed {
				continue
			}

			for r := 0; r <= len(g.Order); r++ {
				if admits(key, col, r) {
					place(key, col, r)
					placed = true
					break
				}
			}
			if !placed {
				place(key, col, nextRow)
			}
		}
	}

	return compactRows(rows)
}

// compactRows renumbers the used row indices densely from zero, preserving
// their relative order.
func compactRows(rows map[string]int) map[string]int {
	used := map[int]bool{}
	for _, r := range rows {
		used[r] = true
	}
	indices := make([]int, 0, len(used))
	for r := range used {
		indices = append(indices, r)
	}
	slices.Sort(indices)

	renumber := make(map[int]int, len(indices))
	for dense, r := range indices {
		renumber[r] = dense
	}

	out := make(map[string]int, len(rows))
	for key, r := range rows {
		out[key] = renumber[r]
	}
	return out
}
