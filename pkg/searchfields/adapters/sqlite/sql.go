package sqlite

import (
	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlstore"
	"github.com/nonibytes/searchfields/pkg/searchfields/storage/sqlbuilder"
)

const ddlBase = `
CREATE TABLE IF NOT EXISTS sf_indices (
  name         TEXT PRIMARY KEY,
  mapping_json TEXT NOT NULL,
  created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sf_documents (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  index_name TEXT NOT NULL,
  doc_type   TEXT NOT NULL,
  body_json  TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_index ON sf_documents(index_name, doc_type);
`

var Dialect = sqlstore.Dialect{
	Name:        "sqlite",
	Placeholder: sqlbuilder.PlaceholderQuestion,
	DDL:         ddlBase,
	SQL: sqlstore.SQL{
		GetIndex:        "SELECT mapping_json FROM sf_indices WHERE name = ?1",
		InsertIndex:     "INSERT INTO sf_indices(name, mapping_json, created_at) VALUES(?1, ?2, ?3)",
		DeleteIndex:     "DELETE FROM sf_indices WHERE name = ?1",
		InsertDocument:  "INSERT INTO sf_documents(index_name, doc_type, body_json, created_at) VALUES(?1, ?2, ?3, ?4)",
		DeleteDocuments: "DELETE FROM sf_documents WHERE index_name = ?1",
	},
}
