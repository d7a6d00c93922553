package searchfields

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

func openSQLite(t *testing.T) *Client {
	t.Helper()
	c, err := Open(context.Background(), OpenOptions{
		Backend:    "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "client.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{Backend: "cassandra"})
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrConfiguration))
}

func TestOpenBadSchemaLocation(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{
		Backend: "sqlite",
		Schema:  filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
}

func TestFieldsIsACopy(t *testing.T) {
	c := openSQLite(t)
	fields := c.Fields()
	require.Contains(t, fields, "product")

	delete(fields, "product")
	assert.Contains(t, c.Fields(), "product")
}

func TestMappingOverride(t *testing.T) {
	c := openSQLite(t)

	base := c.Mapping(nil)
	f, ok := base.Lookup("processed_crash.product")
	require.True(t, ok)
	assert.Equal(t, "string", f["type"])

	product, _ := c.Fields().Get("product")
	product.StorageMapping = map[string]any{"type": "long"}
	over := c.Mapping(&product)
	f, ok = over.Lookup("processed_crash.product")
	require.True(t, ok)
	assert.Equal(t, "long", f["type"])
	assert.Equal(t, true, f["doc_values"])

	// The table itself is unchanged.
	f, _ = c.Mapping(nil).Lookup("processed_crash.product")
	assert.Equal(t, "string", f["type"])
}

func TestTestMapping(t *testing.T) {
	ctx := context.Background()
	c := openSQLite(t)

	require.NoError(t, c.TestMapping(ctx, c.Mapping(nil)))

	bad := schema.Descriptor{
		Name:               "fake_field",
		Namespace:          "raw_crash",
		InDatabaseName:     "fake_field",
		DataValidationType: schema.ValidateStr,
		QueryType:          schema.QueryString,
		StorageMapping:     map[string]any{"type": "unkwown"},
	}
	err := c.TestMapping(ctx, c.Mapping(&bad))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrBadArgument))
}

func TestMissingFields(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	b, err := openBackend(ctx, OpenOptions{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "drift.db")})
	require.NoError(t, err)
	table, err := schema.Default()
	require.NoError(t, err)
	c := NewClient(b, table, Config{Now: func() time.Time { return now }})
	defer c.Close()

	live, err := c.Mapping(nil).Map()
	require.NoError(t, err)
	props := live[DefaultDocType].(map[string]any)["properties"].(map[string]any)
	props["unexpected"] = map[string]any{"type": "long"}
	require.NoError(t, b.CreateIndex(ctx, DefaultIndexTemplate.Format(now), live))

	res, err := c.MissingFields(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"unexpected"}, res.Hits)
	assert.Equal(t, 1, res.Total)
}
