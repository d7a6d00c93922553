package sqlstore

import "github.com/nonibytes/searchfields/pkg/searchfields/storage/sqlbuilder"

// Dialect carries what differs between the SQL engines backing a Store.
type Dialect struct {
	Name        string
	Placeholder sqlbuilder.PlaceholderStyle
	// DDL creates the index and document tables. It must be idempotent.
	DDL string
	SQL SQL
}

// SQL holds the statement templates a Store runs. Placeholders follow the
// dialect's style.
type SQL struct {
	GetIndex        string
	InsertIndex     string
	DeleteIndex     string
	InsertDocument  string
	DeleteDocuments string
}
