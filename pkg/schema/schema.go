// Package schema provides the typed in-memory view of an introspected
// database schema.
//
// The schema arrives as JSON from an ORM introspection endpoint: a mapping
// from app label to app record, each app holding a mapping from model name
// to model record. Apps and models are map-shaped in the JSON, so every
// consumer that needs deterministic output iterates over the sorted key
// helpers ([Schema.AppLabels], [App.ModelNames]) instead of ranging over
// the maps directly. Field and relationship slices preserve JSON order.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Relationship types.
const (
	RelForeignKey = "foreign_key"
	RelOneToOne   = "one_to_one"
	RelManyToMany = "many_to_many"
)

// Relationship directions. Only forward relationships produce edges in the
// diagram; reverse records are informational.
const (
	DirectionForward = "forward"
	DirectionReverse = "reverse"
)

// BuiltinApps is the set of framework-provided app labels excluded from
// the schema by default.
var BuiltinApps = map[string]bool{
	"admin":        true,
	"auth":         true,
	"contenttypes": true,
	"sessions":     true,
	"messages":     true,
	"staticfiles":  true,
}

// Schema is the root of an introspected database schema.
type Schema struct {
	Apps map[string]App `json:"apps" bson:"apps"`
}

// App groups the models of one application namespace.
type App struct {
	VerboseName string           `json:"verbose_name" bson:"verbose_name"`
	Models      map[string]Model `json:"models" bson:"models"`
}

// ModelRef identifies a model by app label and model name.
type ModelRef struct {
	App   string `json:"app" bson:"app"`
	Model string `json:"model" bson:"model"`
}

// Model describes one database table.
type Model struct {
	AppLabel          string         `json:"app_label" bson:"app_label"`
	ModelName         string         `json:"model_name" bson:"model_name"`
	VerboseName       string         `json:"verbose_name" bson:"verbose_name"`
	VerboseNamePlural string         `json:"verbose_name_plural,omitempty" bson:"verbose_name_plural,omitempty"`
	DBTable           string         `json:"db_table" bson:"db_table"`
	Abstract          bool           `json:"abstract" bson:"abstract"`
	Proxy             bool           `json:"proxy" bson:"proxy"`
	Managed           bool           `json:"managed" bson:"managed"`
	AppConfig         string         `json:"app_config,omitempty" bson:"app_config,omitempty"`
	Parents           []ModelRef     `json:"parents,omitempty" bson:"parents,omitempty"`
	Fields            []Field        `json:"fields" bson:"fields"`
	Relationships     []Relationship `json:"relationships" bson:"relationships"`
	Indexes           []Index        `json:"indexes,omitempty" bson:"indexes,omitempty"`
	Constraints       []Constraint   `json:"constraints,omitempty" bson:"constraints,omitempty"`
	UniqueTogether    [][]string     `json:"unique_together,omitempty" bson:"unique_together,omitempty"`
}

// Field describes one column of a model.
type Field struct {
	Name        string   `json:"name" bson:"name"`
	Type        string   `json:"type" bson:"type"`
	VerboseName string   `json:"verbose_name,omitempty" bson:"verbose_name,omitempty"`
	HelpText    string   `json:"help_text,omitempty" bson:"help_text,omitempty"`
	PrimaryKey  bool     `json:"primary_key" bson:"primary_key"`
	Unique      bool     `json:"unique" bson:"unique"`
	Null        bool     `json:"null" bson:"null"`
	Blank       bool     `json:"blank,omitempty" bson:"blank,omitempty"`
	DBIndex     bool     `json:"db_index" bson:"db_index"`
	Editable    bool     `json:"editable,omitempty" bson:"editable,omitempty"`
	Default     string   `json:"default,omitempty" bson:"default,omitempty"`
	MaxLength   int      `json:"max_length,omitempty" bson:"max_length,omitempty"`
	Choices     []Choice `json:"choices,omitempty" bson:"choices,omitempty"`
}

// Choice is one entry of an enumerated field.
type Choice struct {
	Value any    `json:"value" bson:"value"`
	Label string `json:"label" bson:"label"`
}

// Relationship describes a relation from one model to another.
type Relationship struct {
	Name        string    `json:"name" bson:"name"`
	Type        string    `json:"type" bson:"type"`
	Direction   string    `json:"direction" bson:"direction"`
	TargetApp   string    `json:"target_app" bson:"target_app"`
	TargetModel string    `json:"target_model" bson:"target_model"`
	RelatedName string    `json:"related_name,omitempty" bson:"related_name,omitempty"`
	Null        bool      `json:"null,omitempty" bson:"null,omitempty"`
	OnDelete    string    `json:"on_delete,omitempty" bson:"on_delete,omitempty"`
	Through     *ModelRef `json:"through,omitempty" bson:"through,omitempty"`
}

// Index describes a database index on a model.
type Index struct {
	Name   string   `json:"name" bson:"name"`
	Fields []string `json:"fields" bson:"fields"`
}

// Constraint describes a database constraint on a model.
type Constraint struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`
}

// Key builds the canonical node identity "app.model" for a model.
func Key(app, model string) string {
	return app + "." + model
}

// SplitKey is the inverse of [Key]. The second return value is false when
// the key has no separator.
func SplitKey(key string) (app, model string, ok bool) {
	return strings.Cut(key, ".")
}

// Decode parses a schema JSON document from r.
func Decode(r io.Reader) (*Schema, error) {
	var s Schema
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if s.Apps == nil {
		s.Apps = map[string]App{}
	}
	return &s, nil
}

// Parse parses a schema JSON document from a byte slice.
func Parse(data []byte) (*Schema, error) {
	return Decode(strings.NewReader(string(data)))
}

// LoadFile reads and parses a schema JSON file.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// AppLabels returns the app labels in sorted order.
func (s *Schema) AppLabels() []string {
	labels := make([]string, 0, len(s.Apps))
	for label := range s.Apps {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// ModelNames returns the model names of an app in sorted order.
func (a *App) ModelNames() []string {
	names := make([]string, 0, len(a.Models))
	for name := range a.Models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Model looks up a model by app label and model name.
func (s *Schema) Model(app, model string) (Model, bool) {
	a, ok := s.Apps[app]
	if !ok {
		return Model{}, false
	}
	m, ok := a.Models[model]
	return m, ok
}

// ModelCount returns the total number of models across all apps.
func (s *Schema) ModelCount() int {
	n := 0
	for _, a := range s.Apps {
		n += len(a.Models)
	}
	return n
}

// FilterOptions selects a subset of the schema's apps.
type FilterOptions struct {
	// ExcludeBuiltins drops the apps listed in [BuiltinApps].
	ExcludeBuiltins bool

	// Apps restricts the result to the given app labels. Empty means all.
	Apps []string
}

// Filter returns a copy of the schema containing only the selected apps.
// The original schema is not modified.
func (s *Schema) Filter(opts FilterOptions) *Schema {
	allow := map[string]bool{}
	for _, a := range opts.Apps {
		if a = strings.TrimSpace(a); a != "" {
			allow[a] = true
		}
	}

	out := &Schema{Apps: map[string]App{}}
	for label, app := range s.Apps {
		if opts.ExcludeBuiltins && BuiltinApps[label] {
			continue
		}
		if len(allow) > 0 && !allow[label] {
			continue
		}
		out.Apps[label] = app
	}
	return out
}

// PrimaryKey returns the model's first primary-key field, if any.
func (m *Model) PrimaryKey() (Field, bool) {
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f, true
		}
	}
	return Field{}, false
}

// ForwardRelationships returns the model's forward relationship records in
// declaration order.
func (m *Model) ForwardRelationships() []Relationship {
	var out []Relationship
	for _, rel := range m.Relationships {
		if rel.Direction == DirectionForward {
			out = append(out, rel)
		}
	}
	return out
}
