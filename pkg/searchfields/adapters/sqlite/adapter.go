// Package sqlite stores the emulated document index in a SQLite file.
// Callers register a driver: modernc.org/sqlite as "sqlite" or
// github.com/mattn/go-sqlite3 as "sqlite3".
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlstore"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
)

const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

type Options struct {
	Path   string
	Driver string // defaults to DriverModernc
}

func (o Options) dsn() string {
	params := "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	if o.Driver == DriverMattn {
		params = "_busy_timeout=5000&_journal_mode=WAL"
	}
	if strings.Contains(o.Path, "?") {
		return o.Path + "&" + params
	}
	return o.Path + "?" + params
}

// Open connects to the database file and prepares the tables.
func Open(ctx context.Context, opts Options) (*sqlstore.Store, error) {
	if opts.Path == "" {
		return nil, sferrors.Configuration("sqlite_path", "sqlite backend needs a database path")
	}
	if opts.Driver == "" {
		opts.Driver = DriverModernc
	}
	db, err := sql.Open(opts.Driver, opts.dsn())
	if err != nil {
		return nil, sferrors.Wrap(sferrors.ErrBackendUnavailable, "open sqlite", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, sferrors.Wrap(sferrors.ErrBackendUnavailable, "ping sqlite", err)
	}
	s, err := sqlstore.Open(ctx, db, Dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
