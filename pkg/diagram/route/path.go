package route

import (
	"fmt"
	"math"
	"strings"
)

// CornerRadius is the default rounding radius of the path emitter.
const CornerRadius = 8

// SelfLoopExtent is how far a self-loop reaches out of a node's right edge.
const SelfLoopExtent = 40

// SVGPath converts a polyline into an SVG path string with rounded
// corners. Each interior vertex is replaced by a quadratic curve whose
// radius is clamped to half the length of the shorter adjacent segment;
// corners too tight to round (clamped radius of one pixel or less) stay
// sharp. With radius zero the result is the plain polyline.
func SVGPath(points []Point, radius float64) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", fmtCoord(points[0].X), fmtCoord(points[0].Y))
	if len(points) == 1 {
		return b.String()
	}
	if len(points) == 2 {
		fmt.Fprintf(&b, " L %s %s", fmtCoord(points[1].X), fmtCoord(points[1].Y))
		return b.String()
	}

	for i := 1; i < len(points)-1; i++ {
		prev, corner, next := points[i-1], points[i], points[i+1]

		d1 := math.Hypot(corner.X-prev.X, corner.Y-prev.Y)
		d2 := math.Hypot(next.X-corner.X, next.Y-corner.Y)
		r := min(radius, d1/2, d2/2)
		if r <= 1 || d1 == 0 || d2 == 0 {
			fmt.Fprintf(&b, " L %s %s", fmtCoord(corner.X), fmtCoord(corner.Y))
			continue
		}

		inX, inY := (corner.X-prev.X)/d1, (corner.Y-prev.Y)/d1
		outX, outY := (next.X-corner.X)/d2, (next.Y-corner.Y)/d2

		fmt.Fprintf(&b, " L %s %s", fmtCoord(corner.X-inX*r), fmtCoord(corner.Y-inY*r))
		fmt.Fprintf(&b, " Q %s %s %s %s",
			fmtCoord(corner.X), fmtCoord(corner.Y),
			fmtCoord(corner.X+outX*r), fmtCoord(corner.Y+outY*r))
	}

	last := points[len(points)-1]
	fmt.Fprintf(&b, " L %s %s", fmtCoord(last.X), fmtCoord(last.Y))
	return b.String()
}

// SelfLoop returns the rectangular polyline of a node's self reference: a
// loop leaving and re-entering the right edge at one third and two thirds
// of the node height.
func SelfLoop(b Bounds) []Point {
	h := b.Height()
	return []Point{
		{b.Right, b.Top + h/3},
		{b.Right + SelfLoopExtent, b.Top + h/3},
		{b.Right + SelfLoopExtent, b.Top + 2*h/3},
		{b.Right, b.Top + 2*h/3},
	}
}

// fmtCoord renders a coordinate without a trailing ".0" for whole values.
func fmtCoord(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
