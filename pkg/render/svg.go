package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jonasreimer/schemascope/pkg/diagram"
	"github.com/jonasreimer/schemascope/pkg/diagram/route"
)

// Option configures SVG rendering.
type Option func(*svgRenderer)

type svgRenderer struct {
	interaction bool
	radius      float64
	background  string
}

// WithInteraction embeds the pan/zoom/hover/drag script and stylesheet so
// the emitted document works as a standalone interactive diagram.
func WithInteraction() Option { return func(r *svgRenderer) { r.interaction = true } }

// WithCornerRadius overrides the corner radius of edge paths.
func WithCornerRadius(radius float64) Option { return func(r *svgRenderer) { r.radius = radius } }

// WithBackground sets the page background color. The default is a light
// neutral; use "transparent" for embedding.
func WithBackground(color string) Option { return func(r *svgRenderer) { r.background = color } }

// RenderSVG draws a computed layout as a self-contained SVG document: one
// box per node with its header and visible field rows, one orthogonal path
// per route with crow's-foot markers, and a rectangular loop on nodes with
// a self reference.
func RenderSVG(l *diagram.Layout, opts ...Option) []byte {
	r := svgRenderer{radius: route.CornerRadius, background: "#f8fafc"}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := frameSize(l)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		coord(w), coord(h), coord(w), coord(h))

	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	buf.WriteString(`  <g id="viewport">` + "\n")

	for _, rt := range l.Routes {
		renderEdge(&buf, rt, r.radius)
	}
	for _, key := range l.Graph.Order {
		node := l.Graph.Nodes[key]
		bounds, ok := l.Bounds(key)
		if !ok {
			continue
		}
		if node.HasSelfConnection {
			renderSelfLoop(&buf, key, bounds, r.radius)
		}
		renderNode(&buf, node, bounds)
	}

	buf.WriteString("  </g>\n")
	if r.interaction {
		renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frameSize computes the document extent: the rightmost and bottommost node
// edges plus the layout margins, with loop clearance on the right.
func frameSize(l *diagram.Layout) (w, h float64) {
	w, h = 2*diagram.MarginX, 2*diagram.MarginY
	for key := range l.Positions {
		b, ok := l.Bounds(key)
		if !ok {
			continue
		}
		right := b.Right
		if l.Graph.Nodes[key] != nil && l.Graph.Nodes[key].HasSelfConnection {
			right += route.SelfLoopExtent
		}
		w = max(w, right+diagram.MarginX)
		h = max(h, b.Bottom+diagram.MarginY)
	}
	return w, h
}

// renderDefs emits the marker glyphs referenced by edge paths. Crow's-foot
// notation: a three-pronged fork on the "many" side, a perpendicular tick
// on the "one" side.
func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="crow-many" viewBox="0 0 12 12" refX="1" refY="6" markerWidth="12" markerHeight="12" orient="auto">
      <path d="M 11 6 L 1 1 M 11 6 L 1 6 M 11 6 L 1 11" fill="none" stroke="#475569" stroke-width="1.2"/>
    </marker>
    <marker id="crow-one" viewBox="0 0 12 12" refX="1" refY="6" markerWidth="12" markerHeight="12" orient="auto">
      <path d="M 4 1 L 4 11" fill="none" stroke="#475569" stroke-width="1.2"/>
    </marker>
  </defs>
`)
}

// markersFor maps a relationship kind to (start, end) marker references.
// The path runs from the referencing field to the referenced primary key,
// so the "many" fork sits at the start for a plain foreign key.
func markersFor(kind string) (start, end string) {
	switch kind {
	case "one_to_one":
		return "crow-one", "crow-one"
	case "many_to_many":
		return "crow-many", "crow-many"
	default:
		return "crow-many", "crow-one"
	}
}

func renderEdge(buf *bytes.Buffer, rt route.Route, radius float64) {
	d := route.SVGPath(rt.Points, radius)
	if d == "" {
		return
	}
	start, end := markersFor(rt.Kind)
	fmt.Fprintf(buf,
		`    <path class="edge" d="%s" data-source="%s" data-target="%s" data-rel="%s" marker-start="url(#%s)" marker-end="url(#%s)"/>`+"\n",
		d, escape(rt.Source), escape(rt.Target), escape(rt.Name), start, end)
}

func renderSelfLoop(buf *bytes.Buffer, key string, b route.Bounds, radius float64) {
	d := route.SVGPath(route.SelfLoop(b), radius)
	fmt.Fprintf(buf,
		`    <path class="edge self-loop" d="%s" data-source="%s" data-target="%s" marker-end="url(#crow-many)"/>`+"\n",
		d, escape(key), escape(key))
}

func renderNode(buf *bytes.Buffer, n *diagram.Node, b route.Bounds) {
	fmt.Fprintf(buf, `    <g class="node" id="node-%s" data-key="%s" transform="translate(%s %s)">`+"\n",
		escape(n.Key), escape(n.Key), coord(b.Left), coord(b.Top))
	fmt.Fprintf(buf, `      <rect class="node-box" width="%d" height="%s" rx="6"/>`+"\n",
		diagram.NodeWidth, coord(n.Height))
	fmt.Fprintf(buf, `      <path class="node-header" d="M 0 6 Q 0 0 6 0 L %d 0 Q %d 0 %d 6 L %d %d L 0 %d Z"/>`+"\n",
		diagram.NodeWidth-6, diagram.NodeWidth, diagram.NodeWidth, diagram.NodeWidth, diagram.HeaderHeight, diagram.HeaderHeight)
	fmt.Fprintf(buf, `      <text class="node-title" x="%d" y="22" text-anchor="middle">%s</text>`+"\n",
		diagram.NodeWidth/2, escape(title(n)))
	fmt.Fprintf(buf, `      <text class="node-app" x="%d" y="40" text-anchor="middle">%s</text>`+"\n",
		diagram.NodeWidth/2, escape(n.App))

	for i, f := range n.Model.Fields {
		if i >= diagram.VisibleFieldMax {
			fmt.Fprintf(buf, `      <text class="node-more" x="%d" y="%s" text-anchor="middle">%d more fields</text>`+"\n",
				diagram.NodeWidth/2, coord(n.Height-float64(diagram.MoreRowHeight)/2-4), len(n.Model.Fields)-diagram.VisibleFieldMax)
			break
		}
		renderFieldRow(buf, i, f.Name, f.Type, f.PrimaryKey)
	}

	buf.WriteString("    </g>\n")
}

func renderFieldRow(buf *bytes.Buffer, i int, name, typ string, pk bool) {
	y := diagram.HeaderHeight + diagram.FieldPadding/2 + i*diagram.FieldRowHeight + diagram.FieldRowHeight/2 + 4
	class := "field-name"
	if pk {
		class = "field-name field-pk"
	}
	fmt.Fprintf(buf, `      <text class="%s" x="12" y="%d">%s</text>`+"\n", class, y, escape(name))
	fmt.Fprintf(buf, `      <text class="field-type" x="%d" y="%d" text-anchor="end">%s</text>`+"\n",
		diagram.NodeWidth-12, y, escape(shortType(typ)))
}

// title prefers the model's verbose name; schema sources without one fall
// back to the raw model name.
func title(n *diagram.Node) string {
	if n.Model.VerboseName != "" {
		return n.Model.VerboseName
	}
	return n.Name
}

// shortType strips a Django-style field class to its bare type name, e.g.
// "django.db.models.CharField" to "CharField".
func shortType(typ string) string {
	if i := strings.LastIndex(typ, "."); i >= 0 {
		return typ[i+1:]
	}
	return typ
}

// coord formats a pixel coordinate, dropping the fraction for whole values.
func coord(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
