// Package docindex holds the mapping and document rules shared by the
// embedded SQL backends. They follow what Elasticsearch 1.x/2.x accepts for
// the subset of mapping features the field table uses.
package docindex

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

var storageTypes = map[string]bool{
	"string":      true,
	"text":        true,
	"keyword":     true,
	"long":        true,
	"integer":     true,
	"short":       true,
	"byte":        true,
	"double":      true,
	"float":       true,
	"boolean":     true,
	"date":        true,
	"binary":      true,
	"ip":          true,
	"object":      true,
	"nested":      true,
	"multi_field": true,
}

var integerRanges = map[string][2]float64{
	"byte":    {math.MinInt8, math.MaxInt8},
	"short":   {math.MinInt16, math.MaxInt16},
	"integer": {math.MinInt32, math.MaxInt32},
	"long":    {math.MinInt64, math.MaxInt64},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func reject(field, format string, args ...any) error {
	return sferrors.BadArgument(field, "mapper_parsing_exception: "+fmt.Sprintf(format, args...), nil)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// ValidateMapping checks an index mapping keyed by document type.
func ValidateMapping(mapping map[string]any) error {
	for _, docType := range sortedKeys(mapping) {
		body, ok := mapping[docType].(map[string]any)
		if !ok {
			return reject(docType, "mapping for type [%s] must be an object", docType)
		}
		props, ok := body["properties"]
		if !ok {
			continue
		}
		if err := validateProperties("", props); err != nil {
			return err
		}
	}
	return nil
}

func validateProperties(prefix string, v any) error {
	props, ok := v.(map[string]any)
	if !ok {
		return reject(prefix, "expected map for property [properties] on field [%s]", prefix)
	}
	for _, name := range sortedKeys(props) {
		path := join(prefix, name)
		f, ok := props[name].(map[string]any)
		if !ok {
			return reject(path, "expected map for property [%s]", path)
		}
		if err := validateField(path, f); err != nil {
			return err
		}
	}
	return nil
}

func validateField(path string, f map[string]any) error {
	typ := FieldType(f)
	if typ == "" {
		return reject(path, "No type specified for field [%s]", path)
	}
	if !storageTypes[typ] {
		return reject(path, "No handler for type [%s] declared on field [%s]", typ, path)
	}
	if dv, ok := f["doc_values"]; ok {
		if _, isBool := dv.(bool); !isBool {
			return reject(path, "Failed to parse value [%v] as only [true] or [false] are allowed for [doc_values]", dv)
		}
	}
	if idx, ok := f["index"]; ok {
		switch idx {
		case "analyzed", "not_analyzed", "no", true, false:
		default:
			return reject(path, "wrong value for index [%v] for field [%s]", idx, path)
		}
	}
	if props, ok := f["properties"]; ok {
		if typ != "object" && typ != "nested" {
			return reject(path, "field [%s] of type [%s] cannot have properties", path, typ)
		}
		if err := validateProperties(path, props); err != nil {
			return err
		}
	}
	if sub, ok := f["fields"]; ok {
		if err := validateProperties(path, sub); err != nil {
			return err
		}
	}
	return nil
}

// FieldType returns the declared type of a mapping field. A field without a
// type but with properties is an object.
func FieldType(f map[string]any) string {
	if t, ok := f["type"].(string); ok {
		return t
	}
	if _, ok := f["properties"]; ok {
		return "object"
	}
	return ""
}

// Properties returns the top-level properties declared for docType.
func Properties(mapping map[string]any, docType string) map[string]any {
	body, _ := mapping[docType].(map[string]any)
	props, _ := body["properties"].(map[string]any)
	return props
}

// CheckDocument verifies doc against the docType properties of mapping.
// Fields the mapping does not declare are accepted, as with dynamic mapping.
func CheckDocument(mapping map[string]any, docType string, doc map[string]any) error {
	return checkObject("", Properties(mapping, docType), doc)
}

func checkObject(prefix string, props, obj map[string]any) error {
	for _, name := range sortedKeys(obj) {
		f, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		if err := checkValue(join(prefix, name), f, obj[name]); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(path string, f map[string]any, v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		for _, e := range t {
			if err := checkValue(path, f, e); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, e := range t {
			if err := checkValue(path, f, e); err != nil {
				return err
			}
		}
		return nil
	}

	typ := FieldType(f)
	switch typ {
	case "object", "nested":
		obj, ok := v.(map[string]any)
		if !ok {
			return reject(path, "object mapping for [%s] tried to parse field [%s] as object, but found a concrete value", path, path)
		}
		props, _ := f["properties"].(map[string]any)
		return checkObject(path, props, obj)
	case "byte", "short", "integer", "long":
		n, ok := toNumber(v)
		if !ok {
			return reject(path, "failed to parse [%s]: For input string: %q", path, fmt.Sprint(v))
		}
		r := integerRanges[typ]
		if n < r[0] || n > r[1] {
			return reject(path, "failed to parse [%s]: value %v is out of range for a %s", path, v, typ)
		}
		return nil
	case "double", "float":
		if _, ok := toNumber(v); !ok {
			return reject(path, "failed to parse [%s]: For input string: %q", path, fmt.Sprint(v))
		}
		return nil
	case "boolean":
		switch b := v.(type) {
		case bool:
			return nil
		case string:
			if b == "true" || b == "false" {
				return nil
			}
		}
		return reject(path, "failed to parse [%s]: failed to parse value [%v] as only [true] or [false] are allowed", path, v)
	case "date":
		if isDate(v) {
			return nil
		}
		return reject(path, "failed to parse [%s]: Invalid format: %q", path, fmt.Sprint(v))
	default:
		if _, isObj := v.(map[string]any); isObj {
			return reject(path, "failed to parse [%s]: unexpected object for a %s field", path, typ)
		}
		return nil
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func isDate(v any) bool {
	switch d := v.(type) {
	case time.Time:
		return true
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, d); err == nil {
				return true
			}
		}
		_, err := strconv.ParseInt(d, 10, 64)
		return err == nil
	default:
		_, ok := toNumber(v)
		return ok
	}
}
