package cliopt

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// GlobalOptions are parsed once at the CLI root and passed to subcommands.
// They mirror searchfields.OpenOptions plus output flags.
//
// NOTE: This is a separate package to avoid import cycles between the root
// command router and per-command code.
type GlobalOptions struct {
	Backend string

	ESURL      string
	ESUsername string
	ESPassword string

	SQLitePath   string
	SQLiteDriver string

	PostgresDSN    string
	PostgresSchema string

	Schema      string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Insecure  bool

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

	LogLevel  string
	LogFormat string
	Format    string
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// DefaultGlobalOptions returns the built-in defaults, overridden by
// SEARCHFIELDS_* environment variables.
func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Backend:        env("SEARCHFIELDS_BACKEND", "elasticsearch"),
		ESURL:          env("SEARCHFIELDS_ES_URL", "http://localhost:9200"),
		ESUsername:     env("SEARCHFIELDS_ES_USERNAME", ""),
		ESPassword:     env("SEARCHFIELDS_ES_PASSWORD", ""),
		SQLitePath:     env("SEARCHFIELDS_SQLITE_PATH", "searchfields.db"),
		SQLiteDriver:   env("SEARCHFIELDS_SQLITE_DRIVER", "sqlite"),
		PostgresDSN:    env("SEARCHFIELDS_PG_DSN", ""),
		PostgresSchema: env("SEARCHFIELDS_PG_SCHEMA", "searchfields"),
		Schema:         env("SEARCHFIELDS_SCHEMA", ""),
		S3Endpoint:     env("SEARCHFIELDS_S3_ENDPOINT", ""),
		S3AccessKey:    env("SEARCHFIELDS_S3_ACCESS_KEY", ""),
		S3SecretKey:    env("SEARCHFIELDS_S3_SECRET_KEY", ""),
		S3Region:       env("SEARCHFIELDS_S3_REGION", ""),
		DocType:        env("SEARCHFIELDS_DOCTYPE", "crash_reports"),
		Partitions:     env("SEARCHFIELDS_INDEX_TEMPLATE", "socorro%Y%W"),
		Lookback:       envInt("SEARCHFIELDS_LOOKBACK", 3),
		SampleSize:     envInt("SEARCHFIELDS_SAMPLE_SIZE", 50),
		RedisAddr:      env("SEARCHFIELDS_REDIS_ADDR", ""),
		RedisPassword:  env("SEARCHFIELDS_REDIS_PASSWORD", ""),
		CacheTTL:       15 * time.Minute,
		AMQPURL:        env("SEARCHFIELDS_AMQP_URL", ""),
		AMQPExchange:   env("SEARCHFIELDS_AMQP_EXCHANGE", "searchfields_drift"),
		LogLevel:       env("SEARCHFIELDS_LOG_LEVEL", "info"),
		LogFormat:      env("SEARCHFIELDS_LOG_FORMAT", "text"),
		Format:         "pretty",
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Backend, "backend", g.Backend, "backend: elasticsearch|sqlite|postgres")

	fs.StringVar(&g.ESURL, "es-url", g.ESURL, "elasticsearch URL(s), comma separated")
	fs.StringVar(&g.ESUsername, "es-username", g.ESUsername, "elasticsearch username")
	fs.StringVar(&g.ESPassword, "es-password", g.ESPassword, "elasticsearch password")

	fs.StringVar(&g.SQLitePath, "sqlite-path", g.SQLitePath, "sqlite database file")
	fs.StringVar(&g.SQLiteDriver, "sqlite-driver", g.SQLiteDriver, "sqlite driver: sqlite (pure Go) or sqlite3 (cgo)")

	fs.StringVar(&g.PostgresDSN, "pg-dsn", g.PostgresDSN, "postgres DSN")
	fs.StringVar(&g.PostgresSchema, "pg-schema", g.PostgresSchema, "postgres schema holding the tables")

	fs.StringVar(&g.Schema, "schema", g.Schema, "field table: file (.json, .json.gz) or s3://bucket/key; built-in when empty")
	fs.StringVar(&g.S3Endpoint, "s3-endpoint", g.S3Endpoint, "S3-compatible endpoint host:port")
	fs.StringVar(&g.S3AccessKey, "s3-access-key", g.S3AccessKey, "S3 access key")
	fs.StringVar(&g.S3SecretKey, "s3-secret-key", g.S3SecretKey, "S3 secret key")
	fs.StringVar(&g.S3Region, "s3-region", g.S3Region, "S3 region")
	fs.BoolVar(&g.S3Insecure, "s3-insecure", g.S3Insecure, "talk plain HTTP to the S3 endpoint")

	fs.StringVar(&g.DocType, "doctype", g.DocType, "document type the mapping is keyed by")
	fs.StringVar(&g.Partitions, "index-template", g.Partitions, "strftime template of the weekly indices")
	fs.IntVar(&g.Lookback, "lookback", g.Lookback, "weekly indices scanned for missing fields")
	fs.IntVar(&g.SampleSize, "sample-size", g.SampleSize, "documents sampled when validating a mapping")

	fs.StringVar(&g.RedisAddr, "redis-addr", g.RedisAddr, "redis address host:port for caching drift reports")
	fs.StringVar(&g.RedisPassword, "redis-password", g.RedisPassword, "redis password")
	fs.IntVar(&g.RedisDB, "redis-db", g.RedisDB, "redis db number")
	fs.DurationVar(&g.CacheTTL, "cache-ttl", g.CacheTTL, "drift report cache lifetime")

	fs.StringVar(&g.AMQPURL, "amqp-url", g.AMQPURL, "RabbitMQ URL for drift notifications")
	fs.StringVar(&g.AMQPExchange, "amqp-exchange", g.AMQPExchange, "exchange drift reports are published to")

	fs.StringVar(&g.LogLevel, "log-level", g.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&g.LogFormat, "log-format", g.LogFormat, "log format: text|json")
	fs.StringVar(&g.Format, "format", g.Format, "output format: pretty|json")
}

// ESURLs splits the comma separated --es-url value.
func (g GlobalOptions) ESURLs() []string {
	var out []string
	for _, u := range strings.Split(g.ESURL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
