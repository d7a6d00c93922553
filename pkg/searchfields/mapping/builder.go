package mapping

import (
	"encoding/json"
	"strings"

	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

// DefaultDocType is the document type the mapping is declared under.
const DefaultDocType = "crash_reports"

type buildConfig struct {
	docType  string
	override *schema.Descriptor
}

type BuildOption func(*buildConfig)

// WithOverride replaces the table entry named d.Name for this build only.
// d must be a complete descriptor.
func WithOverride(d schema.Descriptor) BuildOption {
	return func(c *buildConfig) {
		c.override = &d
	}
}

func WithDocType(docType string) BuildOption {
	return func(c *buildConfig) {
		if docType != "" {
			c.docType = docType
		}
	}
}

// Build composes the index mapping for every storage-backed field in table.
// Fields are placed at namespace + in_database_name, dotted names becoming
// nested objects, and doc values are applied to each leaf. The table is not
// modified.
func Build(table schema.Table, opts ...BuildOption) Document {
	cfg := buildConfig{docType: DefaultDocType}
	for _, o := range opts {
		o(&cfg)
	}
	fields := table
	if cfg.override != nil {
		fields = table.With(*cfg.override)
	}

	root := &Node{}
	for _, name := range fields.Names() {
		d := fields[name]
		if !d.HasStorage() {
			continue
		}
		root.insert(strings.Split(d.Path(), "."), AddDocValues(d.StorageMapping))
	}
	return Document{DocType: cfg.docType, root: root}
}

// Document is a complete index mapping, built fresh per call.
type Document struct {
	DocType string
	root    *Node
}

// Lookup returns the fragment at a dotted path. Intermediate objects have no
// fragment of their own and report false.
func (d Document) Lookup(path string) (Fragment, bool) {
	if d.root == nil || path == "" {
		return nil, false
	}
	n, ok := d.root.lookup(strings.Split(path, "."))
	if !ok || n.Mapping == nil {
		return nil, false
	}
	return n.Mapping, true
}

// Has reports whether path exists in the mapping, as a leaf or an object.
func (d Document) Has(path string) bool {
	if d.root == nil || path == "" {
		return false
	}
	_, ok := d.root.lookup(strings.Split(path, "."))
	return ok
}

// MarshalJSON renders
//
//	{"<doctype>": {"_all": {"enabled": false}, "properties": {...}}}
//
// with keys sorted at every level, so equal inputs give identical bytes.
func (d Document) MarshalJSON() ([]byte, error) {
	var children []*Node
	if d.root != nil {
		children = d.root.children
	}
	props, err := marshalChildren(children)
	if err != nil {
		return nil, err
	}
	body := writeObject(map[string]json.RawMessage{
		"_all":       json.RawMessage(`{"enabled":false}`),
		"properties": props,
	})
	return writeObject(map[string]json.RawMessage{d.DocType: body}), nil
}

// Map returns the mapping as decoded JSON, the shape backends accept.
func (d Document) Map() (map[string]any, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
