// Package postgres stores the emulated document index in a PostgreSQL
// schema, reached through pgx's database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlstore"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

const DefaultSchema = "searchfields"

type Options struct {
	DSN    string
	Schema string // dedicated schema, pinned via search_path
}

var schemaNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteIdent(ident string) string {
	// ident matched schemaNameRe, so it holds no quotes
	return `"` + ident + `"`
}

func ensureSchema(ctx context.Context, dsn, schema string) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return sferrors.Wrap(sferrors.ErrConfiguration, "parse postgres dsn", err)
	}
	db := stdlib.OpenDB(*cfg)
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return sferrors.Wrap(sferrors.ErrBackendUnavailable, "ping postgres", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoteIdent(schema)); err != nil {
		return sferrors.Wrap(sferrors.ErrBackendUnavailable, "create schema", err)
	}
	return nil
}

func connect(ctx context.Context, opts Options) (*sql.DB, error) {
	if err := ensureSchema(ctx, opts.DSN, opts.Schema); err != nil {
		return nil, err
	}
	cfg, err := pgx.ParseConfig(opts.DSN)
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrConfiguration, "parse postgres dsn", err)
	}
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = make(map[string]string)
	}
	cfg.RuntimeParams["search_path"] = fmt.Sprintf("%s,public", quoteIdent(opts.Schema))

	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, sferrors.Wrap(sferrors.ErrBackendUnavailable, "ping postgres", err)
	}
	return db, nil
}

// Open connects, creates the schema and tables if needed, and returns a
// ready Store.
func Open(ctx context.Context, opts Options) (*sqlstore.Store, error) {
	if opts.DSN == "" {
		return nil, sferrors.Configuration("postgres_dsn", "postgres backend needs a DSN")
	}
	if opts.Schema == "" {
		opts.Schema = DefaultSchema
	}
	if !schemaNameRe.MatchString(opts.Schema) {
		return nil, sferrors.Configuration("postgres_schema",
			fmt.Sprintf("invalid postgres schema name %q (must match %s)", opts.Schema, schemaNameRe.String()))
	}
	db, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	s, err := sqlstore.Open(ctx, db, Dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
