package schema

import (
	"sort"

	"github.com/nonibytes/searchfields/pkg/searchfields/internal/jsonvalue"
)

// DataValidationType governs input-side validation of a field.
type DataValidationType string

const (
	ValidateBool     DataValidationType = "bool"
	ValidateDatetime DataValidationType = "datetime"
	ValidateEnum     DataValidationType = "enum"
	ValidateInt      DataValidationType = "int"
	ValidateStr      DataValidationType = "str"
)

// QueryType governs how search queries interpret a field.
type QueryType string

const (
	QueryBool   QueryType = "bool"
	QueryDate   QueryType = "date"
	QueryEnum   QueryType = "enum"
	QueryFlag   QueryType = "flag"
	QueryNumber QueryType = "number"
	QueryString QueryType = "string"
)

var validDataValidationTypes = map[DataValidationType]bool{
	ValidateBool:     true,
	ValidateDatetime: true,
	ValidateEnum:     true,
	ValidateInt:      true,
	ValidateStr:      true,
}

var validQueryTypes = map[QueryType]bool{
	QueryBool:   true,
	QueryDate:   true,
	QueryEnum:   true,
	QueryFlag:   true,
	QueryNumber: true,
	QueryString: true,
}

func (t DataValidationType) Valid() bool { return validDataValidationTypes[t] }
func (t QueryType) Valid() bool          { return validQueryTypes[t] }

// Descriptor is the static metadata of one known field.
type Descriptor struct {
	Name               string             `json:"name"`
	Namespace          string             `json:"namespace"`
	InDatabaseName     string             `json:"in_database_name"`
	DataValidationType DataValidationType `json:"data_validation_type"`
	QueryType          QueryType          `json:"query_type"`
	StorageMapping     map[string]any     `json:"storage_mapping"`
	IsExposed          bool               `json:"is_exposed"`
	IsMandatory        bool               `json:"is_mandatory"`
	IsReturned         bool               `json:"is_returned"`
	HasFullVersion     bool               `json:"has_full_version"`
	DefaultValue       any                `json:"default_value"`
	FormFieldChoices   []string           `json:"form_field_choices"`
	Description        string             `json:"description"`
	PermissionsNeeded  []string           `json:"permissions_needed"`
}

// DescriptorKeys is the exact attribute set every descriptor carries.
var DescriptorKeys = []string{
	"data_validation_type",
	"default_value",
	"description",
	"form_field_choices",
	"has_full_version",
	"in_database_name",
	"is_exposed",
	"is_mandatory",
	"is_returned",
	"name",
	"namespace",
	"permissions_needed",
	"query_type",
	"storage_mapping",
}

var booleanKeys = []string{"has_full_version", "is_exposed", "is_mandatory", "is_returned"}

// HasStorage reports whether the field is backed by the index. Fields without
// a storage mapping are query-only.
func (d Descriptor) HasStorage() bool { return len(d.StorageMapping) > 0 }

// StorageName is the physical field name, falling back to Name.
func (d Descriptor) StorageName() string {
	if d.InDatabaseName != "" {
		return d.InDatabaseName
	}
	return d.Name
}

// Path is the dotted location of the field inside a document.
func (d Descriptor) Path() string {
	if d.Namespace == "" {
		return d.StorageName()
	}
	return d.Namespace + "." + d.StorageName()
}

// Clone returns a copy sharing no mutable state with d.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.StorageMapping = jsonvalue.CloneMap(d.StorageMapping)
	out.DefaultValue = jsonvalue.Clone(d.DefaultValue)
	if d.FormFieldChoices != nil {
		out.FormFieldChoices = append([]string(nil), d.FormFieldChoices...)
	}
	if d.PermissionsNeeded != nil {
		out.PermissionsNeeded = append([]string(nil), d.PermissionsNeeded...)
	}
	return out
}

// Table maps field name to descriptor. Once loaded it is treated as read-only;
// use With to derive a modified copy.
type Table map[string]Descriptor

// Names returns the registered field names in ascending order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (t Table) Get(name string) (Descriptor, bool) {
	d, ok := t[name]
	return d, ok
}

// Clone deep-copies the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, d := range t {
		out[k] = d.Clone()
	}
	return out
}

// With returns a copy of t where the entry registered under d.Name is
// replaced by d (or added when absent). t itself is left untouched.
func (t Table) With(d Descriptor) Table {
	out := make(Table, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[d.Name] = d.Clone()
	return out
}

// KnownPaths returns the dotted paths of all storage-backed fields.
func (t Table) KnownPaths() map[string]struct{} {
	out := make(map[string]struct{}, len(t))
	for _, d := range t {
		if !d.HasStorage() {
			continue
		}
		out[d.Path()] = struct{}{}
	}
	return out
}
