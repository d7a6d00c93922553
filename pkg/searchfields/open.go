package searchfields

import (
	"context"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/elasticsearch"
	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/postgres"
	"github.com/nonibytes/searchfields/pkg/searchfields/adapters/sqlite"
	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	"github.com/nonibytes/searchfields/pkg/searchfields/drift"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema/source"
)

type OpenOptions struct {
	Backend string

	ESURLs     []string
	ESUsername string
	ESPassword string

	SQLitePath   string
	SQLiteDriver string

	PostgresDSN    string
	PostgresSchema string

	// Schema is a field table location understood by source.Open.
	Schema        string
	SchemaOptions source.Options

	DocType    string
	Partitions string
	Lookback   int
	SampleSize int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	AMQPURL      string
	AMQPExchange string

	Logger  *logging.Logger
	Metrics *metrics.Metrics
}

// OpenOptionsFromCLI converts CLI global flags into library open options.
func OpenOptionsFromCLI(g cliopt.GlobalOptions) OpenOptions {
	return OpenOptions{
		Backend:        g.Backend,
		ESURLs:         g.ESURLs(),
		ESUsername:     g.ESUsername,
		ESPassword:     g.ESPassword,
		SQLitePath:     g.SQLitePath,
		SQLiteDriver:   g.SQLiteDriver,
		PostgresDSN:    g.PostgresDSN,
		PostgresSchema: g.PostgresSchema,
		Schema:         g.Schema,
		SchemaOptions: source.Options{
			S3Endpoint:  g.S3Endpoint,
			S3AccessKey: g.S3AccessKey,
			S3SecretKey: g.S3SecretKey,
			S3Region:    g.S3Region,
			S3Secure:    !g.S3Insecure,
		},
		DocType:       g.DocType,
		Partitions:    g.Partitions,
		Lookback:      g.Lookback,
		SampleSize:    g.SampleSize,
		RedisAddr:     g.RedisAddr,
		RedisPassword: g.RedisPassword,
		RedisDB:       g.RedisDB,
		CacheTTL:      g.CacheTTL,
		AMQPURL:       g.AMQPURL,
		AMQPExchange:  g.AMQPExchange,
	}
}

func openBackend(ctx context.Context, opts OpenOptions) (backend.Backend, error) {
	switch strings.ToLower(opts.Backend) {
	case "elasticsearch", "es":
		return elasticsearch.New(elasticsearch.Options{
			URLs:     opts.ESURLs,
			Username: opts.ESUsername,
			Password: opts.ESPassword,
		})
	case "sqlite":
		return sqlite.Open(ctx, sqlite.Options{Path: opts.SQLitePath, Driver: opts.SQLiteDriver})
	case "postgres", "pg":
		return postgres.Open(ctx, postgres.Options{DSN: opts.PostgresDSN, Schema: opts.PostgresSchema})
	default:
		return nil, NewError(ErrConfiguration, "unknown backend: "+opts.Backend)
	}
}

// Open loads the field table, selects a backend implementation and wires the
// optional drift cache and notifier.
func Open(ctx context.Context, opts OpenOptions) (*Client, error) {
	src, err := source.Open(opts.Schema, opts.SchemaOptions)
	if err != nil {
		return nil, err
	}
	table, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	b, err := openBackend(ctx, opts)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		DocType:    opts.DocType,
		Partitions: partition.Template(opts.Partitions),
		Lookback:   opts.Lookback,
		SampleSize: opts.SampleSize,
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
	}
	var closers []func() error

	if opts.RedisAddr != "" {
		cache := drift.NewRedisCache(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.CacheTTL)
		cfg.Cache = cache
		closers = append(closers, cache.Close)
	}

	if opts.AMQPURL != "" {
		conn, err := amqp.Dial(opts.AMQPURL)
		if err != nil {
			closeAll(closers)
			_ = b.Close()
			return nil, Wrap(ErrBackendUnavailable, "connect to amqp", err)
		}
		closers = append(closers, conn.Close)
		ch, err := conn.Channel()
		if err != nil {
			closeAll(closers)
			_ = b.Close()
			return nil, Wrap(ErrBackendUnavailable, "open amqp channel", err)
		}
		exchange := opts.AMQPExchange
		if exchange == "" {
			exchange = drift.DefaultExchange
		}
		if err := drift.DeclareExchange(ch, exchange); err != nil {
			closeAll(closers)
			_ = b.Close()
			return nil, Wrap(ErrBackendUnavailable, "declare amqp exchange", err)
		}
		cfg.Notifier = drift.NewAMQPNotifier(ch, exchange)
	}

	c := NewClient(b, table, cfg)
	c.closers = closers
	return c, nil
}

func closeAll(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
}
