package route

// Routing distances in layout pixels.
const (
	// MinStub is the minimum length of each horizontal leg of a direct
	// H-V-H route.
	MinStub = 20

	// OuterMargin is how far an outer wrap runs past the extreme obstacle
	// edge.
	OuterMargin = 40

	// JogDistance is the runway offset of a short-jog route from the
	// source side.
	JogDistance = 30
)

// Weights are the scoring coefficients of the router. Lower scores win.
type Weights struct {
	Length    float64
	Turn      float64
	Crossing  float64
	NodeTouch float64
}

// DefaultWeights are the production scoring coefficients.
var DefaultWeights = Weights{Length: 1, Turn: 50, Crossing: 200, NodeTouch: 500}

// Request describes one edge to route: two node keys, the relationship it
// represents, and the absolute anchor Y on each node.
type Request struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`

	// Name and Kind identify the relationship for marker selection. The
	// router itself only carries them through.
	Name string `json:"name" bson:"name"`
	Kind string `json:"kind" bson:"kind"`

	// StartY and EndY are the absolute anchor heights on the source and
	// target.
	StartY float64 `json:"start_y" bson:"start_y"`
	EndY   float64 `json:"end_y" bson:"end_y"`
}

// Route is a routed edge: the request it answers plus the selected
// rectilinear polyline. Points always has at least two vertices and
// consecutive vertices differ in exactly one coordinate.
type Route struct {
	Request
	Points []Point `json:"points" bson:"points"`
}

// Router produces orthogonal polylines between node sides. Routes are
// placed greedily in request order; each candidate is scored against the
// routes already placed, so the ordering affects crossings.
type Router struct {
	bounds  map[string]Bounds
	weights Weights
}

// NewRouter creates a router over the given node bounding boxes.
func NewRouter(bounds map[string]Bounds) *Router {
	return &Router{bounds: bounds, weights: DefaultWeights}
}

// side is a horizontal direction out of a node box.
type side int

const (
	sideLeft side = iota
	sideRight
)

// sidePair is one combination of attachment sides for an edge.
type sidePair struct {
	src, tgt side
}

// sidePairs enumerates the attachment combinations in scoring order.
var sidePairs = [4]sidePair{
	{sideRight, sideLeft},
	{sideRight, sideRight},
	{sideLeft, sideLeft},
	{sideLeft, sideRight},
}

// x returns the attachment X of a side on a box.
func (s side) x(b Bounds) float64 {
	if s == sideRight {
		return b.Right
	}
	return b.Left
}

// outward returns dx moved in the side's direction.
func (s side) outward(x, dx float64) float64 {
	if s == sideRight {
		return x + dx
	}
	return x - dx
}

// beyond reports whether x lies strictly in the side's direction from ref.
func (s side) beyond(x, ref float64) bool {
	if s == sideRight {
		return x > ref
	}
	return x < ref
}

// Plan routes every request in order. Requests whose source or target has
// no bounds are skipped.
func (r *Router) Plan(reqs []Request) []Route {
	routes := make([]Route, 0, len(reqs))
	for _, req := range reqs {
		route, ok := r.plan(req, routes)
		if !ok {
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

func (r *Router) plan(req Request, placed []Route) (Route, bool) {
	src, okS := r.bounds[req.Source]
	tgt, okT := r.bounds[req.Target]
	if !okS || !okT {
		return Route{}, false
	}

	obstacles := make([]Bounds, 0, len(r.bounds))
	for key, b := range r.bounds {
		if key != req.Source && key != req.Target {
			obstacles = append(obstacles, b)
		}
	}
	wrapLeft, wrapRight := wrapRunways(obstacles, src, tgt)

	var best []Point
	bestScore := 0.0
	consider := func(points []Point) {
		if len(points) < 2 {
			return
		}
		s := r.score(points, obstacles, placed)
		if best == nil || s < bestScore {
			best, bestScore = points, s
		}
	}

	for _, pair := range sidePairs {
		srcX, tgtX := pair.src.x(src), pair.tgt.x(tgt)

		if midX := (srcX + tgtX) / 2; directPermitted(pair, srcX, tgtX, midX, req, obstacles) {
			consider(buildPathPoints(srcX, req.StartY, tgtX, req.EndY, midX))
		}
		if pair.src == sideLeft && pair.tgt == sideLeft {
			consider(buildPathPoints(srcX, req.StartY, tgtX, req.EndY, wrapLeft))
		}
		if pair.src == sideRight && pair.tgt == sideRight {
			consider(buildPathPoints(srcX, req.StartY, tgtX, req.EndY, wrapRight))
		}
		consider(buildPathPoints(srcX, req.StartY, tgtX, req.EndY, pair.src.outward(srcX, JogDistance)))

		wideJog := wrapRight
		if pair.src == sideLeft {
			wideJog = wrapLeft
		}
		consider(buildPathPoints(srcX, req.StartY, tgtX, req.EndY, wideJog))
	}

	if best == nil {
		// Degenerate fallback: wrap around the right of everything so the
		// edge still gets a visible polyline.
		best = buildPathPoints(src.Right, req.StartY, tgt.Right, req.EndY, wrapRight)
	}
	return Route{Request: req, Points: best}, true
}

// wrapRunways computes the outer runway X coordinates: one gap past the
// leftmost and rightmost obstacle edges. With no obstacles the endpoints
// themselves bound the wrap.
func wrapRunways(obstacles []Bounds, src, tgt Bounds) (left, right float64) {
	if len(obstacles) == 0 {
		return min(src.Left, tgt.Left) - OuterMargin, max(src.Right, tgt.Right) + OuterMargin
	}
	left, right = obstacles[0].Left, obstacles[0].Right
	for _, b := range obstacles[1:] {
		left = min(left, b.Left)
		right = max(right, b.Right)
	}
	return left - OuterMargin, right + OuterMargin
}

// directPermitted checks the direct H-V-H candidate: both stubs long
// enough, the runway on the outward side of the source, the final leg
// approaching the target from its attachment side, and no segment blocked
// by an obstacle.
func directPermitted(pair sidePair, srcX, tgtX, midX float64, req Request, obstacles []Bounds) bool {
	if absf(midX-srcX) < MinStub || absf(tgtX-midX) < MinStub {
		return false
	}
	if !pair.src.beyond(midX, srcX) {
		return false
	}
	// Approaching a left side means coming from the left, and vice versa.
	if pair.tgt == sideLeft && midX >= tgtX {
		return false
	}
	if pair.tgt == sideRight && midX <= tgtX {
		return false
	}
	points := buildPathPoints(srcX, req.StartY, tgtX, req.EndY, midX)
	for _, seg := range segments(points) {
		for _, b := range obstacles {
			if segBlocked(seg, b) {
				return false
			}
		}
	}
	return true
}

// segBlocked reports whether an obstacle blocks a segment.
func segBlocked(s segment, b Bounds) bool {
	if s.horizontal() {
		return b.BlocksHorizontal(s.a.X, s.b.X, s.a.Y)
	}
	return b.BlocksVertical(s.a.Y, s.b.Y, s.a.X)
}

// score evaluates a candidate polyline against the obstacles and the
// already-placed routes.
func (r *Router) score(points []Point, obstacles []Bounds, placed []Route) float64 {
	segs := segments(points)

	length := 0.0
	for _, s := range segs {
		length += absf(s.b.X-s.a.X) + absf(s.b.Y-s.a.Y)
	}

	turns := 0
	for i := 1; i < len(segs); i++ {
		if segs[i].horizontal() != segs[i-1].horizontal() {
			turns++
		}
	}

	crossings := 0
	for _, s := range segs {
		for _, other := range placed {
			for _, os := range segments(other.Points) {
				if crosses(s, os) {
					crossings++
				}
			}
		}
	}

	touches := 0
	for _, b := range obstacles {
		for _, s := range segs {
			if s.bbox().Overlaps(b) {
				touches++
				break
			}
		}
	}

	w := r.weights
	return w.Length*length + w.Turn*float64(turns) + w.Crossing*float64(crossings) + w.NodeTouch*float64(touches)
}

// buildPathPoints lays out the H-V-H template: out of the source to the
// runway, down or up to the target height, and in to the target. Collinear
// and duplicate vertices are merged, so a straight connection reduces to
// its two endpoints. A vertical step of at most one pixel is absorbed into
// the source height to keep every segment axis-aligned.
func buildPathPoints(srcX, srcY, tgtX, tgtY, midX float64) []Point {
	endY := tgtY
	if absf(srcY-tgtY) <= 1 {
		endY = srcY
	}

	points := []Point{{srcX, srcY}}
	if srcX != midX {
		points = append(points, Point{midX, srcY})
	}
	if endY != srcY {
		points = append(points, Point{midX, endY})
	}
	if midX != tgtX {
		points = append(points, Point{tgtX, endY})
	}
	if last := points[len(points)-1]; last.X != tgtX || last.Y != endY {
		points = append(points, Point{tgtX, endY})
	}
	return mergeCollinear(points)
}

// mergeCollinear removes consecutive duplicate vertices and joins runs of
// collinear segments.
func mergeCollinear(points []Point) []Point {
	out := points[:1]
	for _, p := range points[1:] {
		last := out[len(out)-1]
		if p == last {
			continue
		}
		if len(out) >= 2 {
			prev := out[len(out)-2]
			sameX := prev.X == last.X && last.X == p.X
			sameY := prev.Y == last.Y && last.Y == p.Y
			if sameX || sameY {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
