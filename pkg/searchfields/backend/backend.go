package backend

import "context"

// Backend is the document index the mapping tools talk to. Implementations
// classify failures with searchfields error codes:
//
//   - ErrBadArgument: the backend rejected a mapping or a document
//   - ErrIndexNotFound: the named index does not exist
//   - ErrBackendUnavailable: the backend could not be reached or failed
type Backend interface {
	Name() string

	// CreateIndex creates an index with mapping, keyed by document type.
	CreateIndex(ctx context.Context, name string, mapping map[string]any) error
	// GetMapping returns the live mapping of name, keyed by document type.
	GetMapping(ctx context.Context, name string) (map[string]any, error)
	IndexDocument(ctx context.Context, index, docType string, doc map[string]any) error
	DeleteIndex(ctx context.Context, name string) error
	Refresh(ctx context.Context, name string) error

	// SampleDocuments returns up to size stored documents of docType from
	// indices. Indices that do not exist are ignored.
	SampleDocuments(ctx context.Context, indices []string, docType string, size int) ([]map[string]any, error)

	Close() error
}
