package mapping

import "github.com/nonibytes/searchfields/pkg/searchfields/internal/jsonvalue"

// Fragment is a storage mapping for one field: type, analyzer, sub-fields.
type Fragment = map[string]any

const (
	keyType      = "type"
	keyIndex     = "index"
	keyFields    = "fields"
	keyDocValues = "doc_values"

	typeObject  = "object"
	typeString  = "string"
	notAnalyzed = "not_analyzed"
)

// IsDocValuesFriendly reports whether f is a leaf whose values can be stored
// column-wise. Containers and analyzed strings cannot.
func IsDocValuesFriendly(f Fragment) bool {
	t, ok := f[keyType].(string)
	if !ok || t == "" {
		return false
	}
	if t == typeObject {
		return false
	}
	if t == typeString {
		idx, _ := f[keyIndex].(string)
		return idx == notAnalyzed
	}
	return true
}

// AddDocValues returns a copy of f with the doc_values annotation applied.
// A multi-field mapping gets the annotation on its friendly sub-fields only.
// f is never modified.
func AddDocValues(f Fragment) Fragment {
	out := jsonvalue.CloneMap(f)
	if out == nil {
		return nil
	}
	if sub, ok := out[keyFields].(map[string]any); ok && len(sub) > 0 {
		for _, v := range sub {
			if sf, ok := v.(map[string]any); ok && IsDocValuesFriendly(sf) {
				sf[keyDocValues] = true
			}
		}
		return out
	}
	if IsDocValuesFriendly(out) {
		out[keyDocValues] = true
	}
	return out
}
