// Package sqlstore emulates a document index on top of database/sql. Index
// mappings and documents are stored as JSON and checked with the docindex
// rules, so a candidate mapping fails here the way it fails on a cluster.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	"github.com/nonibytes/searchfields/pkg/searchfields/backend/docindex"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
	"github.com/nonibytes/searchfields/pkg/searchfields/storage/sqlbuilder"
)

// Store implements backend.Backend over a *sql.DB.
type Store struct {
	DB      *sql.DB
	Dialect Dialect

	// Now stamps new rows. Defaults to time.Now.
	Now func() time.Time
}

var _ backend.Backend = (*Store)(nil)

// Open wraps db and creates the tables if needed.
func Open(ctx context.Context, db *sql.DB, d Dialect) (*Store, error) {
	s := &Store{DB: db, Dialect: d, Now: time.Now}
	if _, err := db.ExecContext(ctx, d.DDL); err != nil {
		return nil, unavailable("create tables", err)
	}
	return s, nil
}

func (s *Store) Name() string { return s.Dialect.Name }

func (s *Store) Close() error { return s.DB.Close() }

func unavailable(op string, err error) error {
	return sferrors.Wrap(sferrors.ErrBackendUnavailable, "sql backend: "+op, err)
}

func (s *Store) nowMS() int64 {
	if s.Now == nil {
		return time.Now().UnixMilli()
	}
	return s.Now().UnixMilli()
}

func (s *Store) CreateIndex(ctx context.Context, name string, mapping map[string]any) error {
	if name == "" {
		return sferrors.BadArgument("index", "index name must not be empty", nil)
	}
	if err := docindex.ValidateMapping(mapping); err != nil {
		return err
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return sferrors.BadArgument("storage_mapping", "mapping is not serializable", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx, s.Dialect.SQL.GetIndex, name).Scan(&existing)
	switch {
	case err == nil:
		return sferrors.BadArgument("index", "resource_already_exists_exception: index ["+name+"] already exists", nil)
	case !stderrors.Is(err, sql.ErrNoRows):
		return unavailable("lookup index", err)
	}
	if _, err := tx.ExecContext(ctx, s.Dialect.SQL.InsertIndex, name, string(body), s.nowMS()); err != nil {
		return unavailable("insert index", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *Store) GetMapping(ctx context.Context, name string) (map[string]any, error) {
	var body string
	err := s.DB.QueryRowContext(ctx, s.Dialect.SQL.GetIndex, name).Scan(&body)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, sferrors.IndexNotFound(name)
	}
	if err != nil {
		return nil, unavailable("get mapping", err)
	}
	var mapping map[string]any
	if err := json.Unmarshal([]byte(body), &mapping); err != nil {
		return nil, unavailable("decode mapping of "+name, err)
	}
	return mapping, nil
}

func (s *Store) IndexDocument(ctx context.Context, index, docType string, doc map[string]any) error {
	mapping, err := s.GetMapping(ctx, index)
	if err != nil {
		return err
	}
	if err := docindex.CheckDocument(mapping, docType, doc); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return sferrors.BadArgument("document", "document is not serializable", err)
	}
	if _, err := s.DB.ExecContext(ctx, s.Dialect.SQL.InsertDocument, index, docType, string(body), s.nowMS()); err != nil {
		return unavailable("insert document", err)
	}
	return nil
}

func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.Dialect.SQL.DeleteDocuments, name); err != nil {
		return unavailable("delete documents", err)
	}
	res, err := tx.ExecContext(ctx, s.Dialect.SQL.DeleteIndex, name)
	if err != nil {
		return unavailable("delete index", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete index", err)
	}
	if n == 0 {
		return sferrors.IndexNotFound(name)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// Refresh only checks that the index exists; writes are visible on commit.
func (s *Store) Refresh(ctx context.Context, name string) error {
	_, err := s.GetMapping(ctx, name)
	return err
}

func (s *Store) SampleDocuments(ctx context.Context, indices []string, docType string, size int) ([]map[string]any, error) {
	if size <= 0 || len(indices) == 0 {
		return nil, nil
	}
	b := sqlbuilder.New(s.Dialect.Placeholder)
	q := "SELECT body_json FROM sf_documents WHERE doc_type = " + b.Arg(docType) +
		" AND index_name IN " + b.In(indices) +
		" ORDER BY id DESC LIMIT " + b.Arg(size)

	rows, err := s.DB.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, unavailable("sample documents", err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, unavailable("sample documents", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, unavailable("decode document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("sample documents", err)
	}
	return docs, nil
}
