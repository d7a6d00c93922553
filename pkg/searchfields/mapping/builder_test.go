package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

func defaultTable(t *testing.T) schema.Table {
	t.Helper()
	table, err := schema.Default()
	require.NoError(t, err)
	return table
}

func properties(t *testing.T, m map[string]any, path ...string) map[string]any {
	t.Helper()
	cur := m
	for _, p := range path {
		next, ok := cur[p].(map[string]any)
		require.True(t, ok, "missing %s", p)
		props, ok := next["properties"].(map[string]any)
		require.True(t, ok, "%s has no properties", p)
		cur = props
	}
	return cur
}

func TestBuildShape(t *testing.T) {
	doc := Build(defaultTable(t))
	m, err := doc.Map()
	require.NoError(t, err)

	require.Contains(t, m, DefaultDocType)
	top := m[DefaultDocType].(map[string]any)
	assert.Equal(t, map[string]any{"enabled": false}, top["_all"])

	props := properties(t, m, DefaultDocType)
	assert.Contains(t, props, "processed_crash")
	assert.Contains(t, props, "raw_crash")

	processed := properties(t, props, "processed_crash")

	// in_database_name is used
	assert.Contains(t, processed, "os_name")
	assert.NotContains(t, processed, "platform")

	// no storage mapping
	assert.NotContains(t, processed, "dump")
	assert.NotContains(t, properties(t, props, "raw_crash"), "upload_file_minidump_browser")

	assert.Equal(t, map[string]any{"analyzer": "keyword", "type": "string"}, processed["release_channel"])

	jsonDump := processed["json_dump"].(map[string]any)
	assert.Equal(t, "object", jsonDump["type"])
	assert.Equal(t, "true", jsonDump["dynamic"])
	assert.Equal(t,
		map[string]any{"type": "long", "doc_values": true},
		properties(t, processed, "json_dump")["write_combine_size"],
	)
	assert.Equal(t,
		map[string]any{"type": "short", "doc_values": true},
		properties(t, processed, "json_dump", "system_info")["cpu_count"],
	)
}

func TestBuildAppliesDocValuesToMultiFields(t *testing.T) {
	doc := Build(defaultTable(t))

	f, ok := doc.Lookup("raw_crash.AsyncShutdownTimeout")
	require.True(t, ok)
	fields := f["fields"].(map[string]any)
	assert.Equal(t, true, fields["full"].(map[string]any)["doc_values"])
	assert.NotContains(t, fields["AsyncShutdownTimeout"], "doc_values")
	assert.NotContains(t, f, "doc_values")
}

func TestBuildDoesNotMutateTable(t *testing.T) {
	table := defaultTable(t)
	_ = Build(table)
	assert.NotContains(t, table["uptime"].StorageMapping, "doc_values")
	assert.NotContains(t, table["signature"].StorageMapping["fields"].(map[string]any)["full"], "doc_values")
}

func TestBuildOverrideAddsField(t *testing.T) {
	table := defaultTable(t)
	before := Build(table)
	assert.False(t, before.Has("raw_crash.fake_field"))

	doc := Build(table, WithOverride(schema.Descriptor{
		Name:               "fake_field",
		Namespace:          "raw_crash",
		InDatabaseName:     "fake_field",
		DataValidationType: schema.ValidateInt,
		QueryType:          schema.QueryNumber,
		StorageMapping:     map[string]any{"type": "long"},
	}))

	f, ok := doc.Lookup("raw_crash.fake_field")
	require.True(t, ok)
	assert.Equal(t, "long", f["type"])
	assert.NotContains(t, table, "fake_field")
}

func TestBuildOverrideReplacesField(t *testing.T) {
	table := defaultTable(t)
	before, err := Build(table).Map()
	require.NoError(t, err)

	product := table["product"]
	product.StorageMapping = map[string]any{"type": "long"}
	after, err := Build(table, WithOverride(product)).Map()
	require.NoError(t, err)

	beforeProps := properties(t, before, DefaultDocType, "processed_crash")
	afterProps := properties(t, after, DefaultDocType, "processed_crash")

	assert.Equal(t, map[string]any{"type": "long", "doc_values": true}, afterProps["product"])
	for name, v := range beforeProps {
		if name == "product" {
			continue
		}
		assert.Equal(t, v, afterProps[name], name)
	}
	assert.Equal(t, "string", table["product"].StorageMapping["type"])
}

func TestBuildDeterministic(t *testing.T) {
	table := defaultTable(t)
	a, err := Build(table).MarshalJSON()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		b, err := Build(table.Clone()).MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestBuildDocType(t *testing.T) {
	doc := Build(defaultTable(t), WithDocType("processed"))
	m, err := doc.Map()
	require.NoError(t, err)
	assert.Contains(t, m, "processed")
	assert.NotContains(t, m, DefaultDocType)
}

func TestBuildEmptyTable(t *testing.T) {
	b, err := Build(schema.Table{}).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"crash_reports":{"_all":{"enabled":false},"properties":{}}}`, string(b))
}
