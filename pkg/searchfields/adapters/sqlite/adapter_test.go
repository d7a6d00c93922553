package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlite"
	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlstore"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

func openStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), sqlite.Options{
		Path: filepath.Join(t.TempDir(), "index.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func crashMapping(props map[string]any) map[string]any {
	return map[string]any{
		"crash_reports": map[string]any{
			"_all":       map[string]any{"enabled": false},
			"properties": props,
		},
	}
}

func TestCreateAndGetMapping(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	assert.Equal(t, "sqlite", s.Name())

	m := crashMapping(map[string]any{
		"processed_crash": map[string]any{
			"type":       "object",
			"dynamic":    "true",
			"properties": map[string]any{"uptime": map[string]any{"type": "long", "doc_values": true}},
		},
	})
	require.NoError(t, s.CreateIndex(ctx, "socorro202402", m))

	got, err := s.GetMapping(ctx, "socorro202402")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	err = s.CreateIndex(ctx, "socorro202402", m)
	require.Error(t, err)
	assert.True(t, sferrors.IsCode(err, sferrors.ErrBadArgument))
}

func TestCreateIndexRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	err := s.CreateIndex(ctx, "bad", crashMapping(map[string]any{
		"fake_field": map[string]any{"type": "unkwown"},
	}))
	require.Error(t, err)
	assert.True(t, sferrors.IsCode(err, sferrors.ErrBadArgument))

	_, err = s.GetMapping(ctx, "bad")
	assert.True(t, sferrors.IsCode(err, sferrors.ErrIndexNotFound))
}

func TestMissingIndex(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.GetMapping(ctx, "nope")
	assert.True(t, sferrors.IsCode(err, sferrors.ErrIndexNotFound))
	assert.True(t, sferrors.IsCode(s.DeleteIndex(ctx, "nope"), sferrors.ErrIndexNotFound))
	assert.True(t, sferrors.IsCode(s.Refresh(ctx, "nope"), sferrors.ErrIndexNotFound))
	assert.True(t, sferrors.IsCode(s.IndexDocument(ctx, "nope", "crash_reports", map[string]any{}), sferrors.ErrIndexNotFound))
}

func TestIndexDocumentChecksTypes(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.CreateIndex(ctx, "idx", crashMapping(map[string]any{
		"product": map[string]any{"type": "long"},
	})))

	require.NoError(t, s.IndexDocument(ctx, "idx", "crash_reports", map[string]any{"product": 12}))
	err := s.IndexDocument(ctx, "idx", "crash_reports", map[string]any{"product": "WaterWolf"})
	require.Error(t, err)
	assert.True(t, sferrors.IsCode(err, sferrors.ErrBadArgument))
	require.NoError(t, s.Refresh(ctx, "idx"))
}

func TestSampleAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := crashMapping(map[string]any{"signature": map[string]any{"type": "string"}})
	require.NoError(t, s.CreateIndex(ctx, "a", m))
	require.NoError(t, s.CreateIndex(ctx, "b", m))

	for _, sig := range []string{"one", "two", "three"} {
		require.NoError(t, s.IndexDocument(ctx, "a", "crash_reports", map[string]any{"signature": sig}))
	}
	require.NoError(t, s.IndexDocument(ctx, "b", "crash_reports", map[string]any{"signature": "four"}))
	require.NoError(t, s.IndexDocument(ctx, "b", "other", map[string]any{"signature": "skipped"}))

	docs, err := s.SampleDocuments(ctx, []string{"a", "b", "missing"}, "crash_reports", 2)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"signature": "four"}, {"signature": "three"}}, docs)

	docs, err = s.SampleDocuments(ctx, []string{"a"}, "crash_reports", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, s.DeleteIndex(ctx, "a"))
	docs, err = s.SampleDocuments(ctx, []string{"a"}, "crash_reports", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = s.GetMapping(ctx, "a")
	assert.True(t, sferrors.IsCode(err, sferrors.ErrIndexNotFound))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), sqlite.Options{})
	assert.True(t, sferrors.IsCode(err, sferrors.ErrConfiguration))
}
