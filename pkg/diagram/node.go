package diagram

import (
	"strings"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

// Grid and node metrics in layout pixels. Field anchors and positions are
// derived from these, so they are contractual for every consumer that
// draws on top of the layout.
const (
	// NodeWidth is the uniform width of every node box.
	NodeWidth = 220

	// HorizontalGap separates adjacent columns.
	HorizontalGap = 150

	// VerticalGap separates adjacent rows.
	VerticalGap = 100

	// MarginX and MarginY offset the first column and row from the origin.
	MarginX = 50
	MarginY = 50

	// HeaderHeight is the title area at the top of a node box.
	HeaderHeight = 50

	// FieldPadding is the vertical padding around the field list.
	FieldPadding = 16

	// FieldRowHeight is the height of one field line.
	FieldRowHeight = 28

	// MoreRowHeight is the height of the "N more fields" line shown when a
	// model has more fields than VisibleFieldMax.
	MoreRowHeight = 24

	// VisibleFieldMax caps the number of field lines drawn per node.
	VisibleFieldMax = 5

	// DefaultNodeHeight stands in when a node's height is unknown.
	DefaultNodeHeight = 180
)

// Node is one drawable box of the diagram, representing a single model.
type Node struct {
	// Key is the canonical identity "app.model".
	Key string

	// App and Name are the key's components.
	App  string
	Name string

	// Model is the underlying schema record.
	Model schema.Model

	// Height is the measured pixel height of the box.
	Height float64

	// Outgoing and Incoming hold the keys of nodes this node points to and
	// is pointed at by. Connections is their union; ConnectionOrder lists
	// the same keys in first-insertion order so that placement can iterate
	// connections deterministically.
	Outgoing        map[string]bool
	Incoming        map[string]bool
	Connections     map[string]bool
	ConnectionOrder []string

	// HasSelfConnection records a forward relationship from the model to
	// itself. Self references produce no edge; the renderer draws them as
	// a loop on the node box.
	HasSelfConnection bool
}

// NodeHeight measures the pixel height of a node box from its field count:
// header, padding, one row per visible field, and an extra line when fields
// are truncated. Adding a field never decreases the result.
func NodeHeight(m schema.Model) float64 {
	n := len(m.Fields)
	h := HeaderHeight + FieldPadding + min(n, VisibleFieldMax)*FieldRowHeight
	if n > VisibleFieldMax {
		h += MoreRowHeight
	}
	return float64(h)
}

// anchorDefaultY is the fields-area midpoint used when no matching field is
// visible: the center of the first field row.
const anchorDefaultY = HeaderHeight + FieldPadding/2 + FieldRowHeight/2

// fieldRowCenterY returns the anchor Y for the i-th visible field row,
// relative to the node top.
func fieldRowCenterY(i int) float64 {
	return HeaderHeight + FieldPadding/2 + float64(i)*FieldRowHeight + FieldRowHeight/2
}

// FieldYOffset returns the anchor Y, relative to the node top, of the field
// backing the named relationship. Relationship fields are matched by name,
// by name with an "_id" suffix, or by name with a trailing "_id" stripped.
// When no visible field matches, the first-row midpoint is returned.
func FieldYOffset(m schema.Model, relName string) float64 {
	trimmed := strings.TrimSuffix(relName, "_id")
	for i, f := range m.Fields {
		if i >= VisibleFieldMax {
			break
		}
		if f.Name == relName || f.Name == relName+"_id" || f.Name == trimmed {
			return fieldRowCenterY(i)
		}
	}
	return anchorDefaultY
}

// PKYOffset returns the anchor Y, relative to the node top, of the model's
// primary-key field, or the first-row midpoint when no visible field is
// marked as the primary key.
func PKYOffset(m schema.Model) float64 {
	for i, f := range m.Fields {
		if i >= VisibleFieldMax {
			break
		}
		if f.PrimaryKey {
			return fieldRowCenterY(i)
		}
	}
	return anchorDefaultY
}
