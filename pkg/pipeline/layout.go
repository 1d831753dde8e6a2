package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/jonasreimer/schemascope/pkg/diagram"
	"github.com/jonasreimer/schemascope/pkg/schema"
)

// GenerateLayout computes the diagram layout for a schema. The result is
// deterministic for a given schema document.
func GenerateLayout(s *schema.Schema) *diagram.Layout {
	return diagram.Compute(s)
}

// MarshalLayout serializes a layout to JSON. The output round-trips
// through UnmarshalLayout so the layout and render stages can run as
// separate invocations.
func MarshalLayout(l *diagram.Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("serialize layout: %w", err)
	}
	return data, nil
}

// UnmarshalLayout deserializes a layout produced by MarshalLayout.
func UnmarshalLayout(data []byte) (*diagram.Layout, error) {
	var l diagram.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &l, nil
}
