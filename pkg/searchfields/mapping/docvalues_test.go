package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDocValuesFriendly(t *testing.T) {
	tests := []struct {
		name     string
		value    Fragment
		expected bool
	}{
		{"NoType", Fragment{}, false},
		{"Object", Fragment{"type": "object"}, false},
		{"AnalyzedString", Fragment{"type": "string"}, false},
		{"KeywordAnalyzer", Fragment{"type": "string", "analyzer": "keyword"}, false},
		{"ExplicitlyAnalyzed", Fragment{"type": "string", "index": "analyzed"}, false},
		{"NotAnalyzedString", Fragment{"type": "string", "index": "not_analyzed"}, true},
		{"Long", Fragment{"type": "long"}, true},
		{"Date", Fragment{"type": "date"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDocValuesFriendly(tt.value))
		})
	}
}

func TestAddDocValuesLeaf(t *testing.T) {
	data := Fragment{"type": "short"}
	got := AddDocValues(data)

	assert.Equal(t, Fragment{"type": "short", "doc_values": true}, got)
	assert.Equal(t, Fragment{"type": "short"}, data, "input must not be modified")
}

func multiField() Fragment {
	return Fragment{
		"fields": map[string]any{
			"AsyncShutdownTimeout": map[string]any{
				"analyzer": "standard",
				"index":    "analyzed",
				"type":     "string",
			},
			"full": map[string]any{
				"index": "not_analyzed",
				"type":  "string",
			},
		},
		"type": "multi_field",
	}
}

func TestAddDocValuesMultiField(t *testing.T) {
	data := multiField()
	got := AddDocValues(data)

	assert.Equal(t, Fragment{
		"fields": map[string]any{
			"AsyncShutdownTimeout": map[string]any{
				"analyzer": "standard",
				"index":    "analyzed",
				"type":     "string",
			},
			"full": map[string]any{
				"index":      "not_analyzed",
				"type":       "string",
				"doc_values": true,
			},
		},
		"type": "multi_field",
	}, got)
	assert.Equal(t, multiField(), data)
}

func TestAddDocValuesIdempotent(t *testing.T) {
	for _, f := range []Fragment{
		{"type": "short"},
		{"type": "string"},
		{"type": "object", "properties": map[string]any{}},
		{},
		multiField(),
	} {
		once := AddDocValues(f)
		assert.Equal(t, once, AddDocValues(once))
	}
}

func TestAddDocValuesUnfriendlyIsUnchanged(t *testing.T) {
	f := Fragment{"type": "string", "analyzer": "keyword"}
	assert.Equal(t, f, AddDocValues(f))
	assert.Nil(t, AddDocValues(nil))
}
