package diagram

// Position is the top-left corner of a node box in layout pixels.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// mapPositions converts grid cells to pixel positions. Columns advance by
// the uniform node width plus the horizontal gap. Rows advance by the
// tallest node of the row plus the vertical gap; an empty row falls back to
// the default node height.
func mapPositions(g *Graph, cols, rows map[string]int) map[string]Position {
	maxRow := -1
	rowHeights := map[int]float64{}
	for _, key := range g.Order {
		r := rows[key]
		maxRow = max(maxRow, r)
		rowHeights[r] = max(rowHeights[r], g.Nodes[key].Height)
	}

	rowY := make(map[int]float64, maxRow+1)
	y := float64(MarginY)
	for r := 0; r <= maxRow; r++ {
		rowY[r] = y
		h := rowHeights[r]
		if h == 0 {
			h = DefaultNodeHeight
		}
		y += h + VerticalGap
	}

	positions := make(map[string]Position, len(g.Order))
	for _, key := range g.Order {
		positions[key] = Position{
			X: MarginX + float64(cols[key])*(NodeWidth+HorizontalGap),
			Y: rowY[rows[key]],
		}
	}
	return positions
}
