package elasticsearch

import (
	"sort"

	"github.com/nonibytes/searchfields/pkg/searchfields/internal/jsonvalue"
)

// Modernize rewrites a mapping written in the 1.x/2.x dialect of the field
// table into one a 6.x/7.x cluster accepts:
//
//   - "string" with index "not_analyzed" becomes "keyword"; other strings
//     become "text" and lose doc_values
//   - index "analyzed"/"not_analyzed" is dropped and "no" becomes false
//   - "multi_field" becomes its primary sub-field with the rest under fields
//   - the per-type "_all" setting is dropped
//
// mapping is keyed by document type and is never modified.
func Modernize(mapping map[string]any) map[string]any {
	out := jsonvalue.CloneMap(mapping)
	for _, v := range out {
		body, ok := v.(map[string]any)
		if !ok {
			continue
		}
		delete(body, "_all")
		if props, ok := body["properties"].(map[string]any); ok {
			modernizeProperties(props)
		}
	}
	return out
}

func modernizeProperties(props map[string]any) {
	for name, v := range props {
		f, ok := v.(map[string]any)
		if !ok {
			continue
		}
		props[name] = modernizeField(name, f)
	}
}

func modernizeField(name string, f map[string]any) map[string]any {
	if f["type"] == "multi_field" {
		f = flattenMultiField(name, f)
	}
	if f["type"] == "string" {
		if f["index"] == "not_analyzed" {
			f["type"] = "keyword"
		} else {
			f["type"] = "text"
			delete(f, "doc_values")
		}
	}
	switch f["index"] {
	case "analyzed", "not_analyzed":
		delete(f, "index")
	case "no":
		f["index"] = false
	}
	if props, ok := f["properties"].(map[string]any); ok {
		modernizeProperties(props)
	}
	if sub, ok := f["fields"].(map[string]any); ok {
		modernizeProperties(sub)
		if len(sub) == 0 {
			delete(f, "fields")
		}
	}
	return f
}

// flattenMultiField promotes the sub-field named like the field itself, or
// the first one by name, to be the field.
func flattenMultiField(name string, f map[string]any) map[string]any {
	sub, _ := f["fields"].(map[string]any)
	primary := name
	if _, ok := sub[primary].(map[string]any); !ok {
		keys := make([]string, 0, len(sub))
		for k := range sub {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			return map[string]any{"type": "string"}
		}
		primary = keys[0]
	}
	out, _ := sub[primary].(map[string]any)
	if out == nil {
		out = map[string]any{"type": "string"}
	}
	rest := make(map[string]any, len(sub))
	for k, v := range sub {
		if k != primary {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		out["fields"] = rest
	}
	return out
}
