package cliutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

const productLong = `{
  "name": "product",
  "namespace": "processed_crash",
  "in_database_name": "product",
  "data_validation_type": "enum",
  "query_type": "enum",
  "storage_mapping": {"type": "long"},
  "is_exposed": true,
  "is_mandatory": false,
  "is_returned": true,
  "has_full_version": false,
  "default_value": null,
  "form_field_choices": [],
  "description": "",
  "permissions_needed": []
}`

func TestReadDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.json")
	require.NoError(t, os.WriteFile(path, []byte(productLong), 0o644))

	d, err := ReadDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, "product", d.Name)
	assert.Equal(t, map[string]any{"type": "long"}, d.StorageMapping)
}

func TestReadDescriptorControlCharacterName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.json")
	body := strings.Replace(productLong, `"name": "product"`, `"name": "prod\u007fuct"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	d, err := ReadDescriptor(path)
	require.NoError(t, err)
	assert.Equal(t, "prod\x7fuct", d.Name)
}

func TestReadDescriptorInvalid(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.json")
	require.NoError(t, os.WriteFile(noName, []byte(`{"namespace": "x"}`), 0o644))
	_, err := ReadDescriptor(noName)
	assert.Error(t, err)

	missingKeys := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(missingKeys, []byte(`{"name": "x", "namespace": "y"}`), 0o644))
	_, err = ReadDescriptor(missingKeys)
	assert.True(t, sferrors.IsCode(err, sferrors.ErrConfiguration))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, FormatJSON, map[string]int{"total": 1}))
	assert.Equal(t, "{\"total\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintJSON(&buf, ParseOutputFormat("bogus"), map[string]int{"total": 1}))
	assert.Equal(t, "{\n  \"total\": 1\n}\n", buf.String())
}
