package schema

import (
	_ "embed"
	"sync"
)

//go:embed fields.json
var defaultFieldsJSON []byte

var (
	defaultOnce  sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the built-in field table. It is parsed and validated once;
// callers must not modify the returned table.
func Default() (Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = FromJSON(defaultFieldsJSON)
	})
	return defaultTable, defaultErr
}

// DefaultJSON returns the raw embedded table.
func DefaultJSON() []byte {
	return append([]byte(nil), defaultFieldsJSON...)
}
