package schema

import (
	"fmt"
	"sort"
	"strings"

	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

// Validate checks the invariants the loader cannot express through decoding:
// registration key equals descriptor name and enum values are known.
func (t Table) Validate() error {
	if len(t) == 0 {
		return sferrors.NewError(sferrors.ErrConfiguration, "field table is empty")
	}
	for _, key := range t.Names() {
		if err := t[key].validate(key); err != nil {
			return err
		}
	}
	return nil
}

func (d Descriptor) validate(key string) error {
	if d.Name != key {
		return sferrors.Configuration(key, fmt.Sprintf("name %q does not match registration key", d.Name))
	}
	if !d.DataValidationType.Valid() {
		return sferrors.Configuration(key, fmt.Sprintf("invalid data_validation_type %q", d.DataValidationType))
	}
	if !d.QueryType.Valid() {
		return sferrors.Configuration(key, fmt.Sprintf("invalid query_type %q", d.QueryType))
	}
	if strings.HasPrefix(d.StorageName(), ".") || strings.HasSuffix(d.StorageName(), ".") {
		return sferrors.Configuration(key, fmt.Sprintf("invalid in_database_name %q", d.InDatabaseName))
	}
	return nil
}

// checkKeys enforces the fixed attribute set on a raw entry.
func checkKeys(key string, raw map[string][]byte) error {
	var missing, unknown []string
	want := make(map[string]bool, len(DescriptorKeys))
	for _, k := range DescriptorKeys {
		want[k] = true
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range raw {
		if !want[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	if len(missing) > 0 {
		return sferrors.Configuration(key, "missing attributes: "+strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		return sferrors.Configuration(key, "unknown attributes: "+strings.Join(unknown, ", "))
	}
	for _, k := range booleanKeys {
		switch string(raw[k]) {
		case "true", "false":
		default:
			return sferrors.Configuration(key, fmt.Sprintf("%s must be a boolean, got %s", k, raw[k]))
		}
	}
	return nil
}
