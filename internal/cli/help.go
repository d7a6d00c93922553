package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprintln(w, `searchfields: build, validate and audit crash-report index mappings

USAGE
  searchfields [global flags] <command> [args]

GLOBAL FLAGS
  --backend elasticsearch|sqlite|postgres
  --es-url <url[,url]>      --es-username <user>   --es-password <pw>
  --sqlite-path <file.db>   --sqlite-driver sqlite|sqlite3
  --pg-dsn <dsn>            --pg-schema <name>
  --schema <file|file.gz|s3://bucket/key>
  --s3-endpoint <host:port> --s3-access-key <k>    --s3-secret-key <k>
  --doctype <name>          --index-template <strftime>
  --lookback <weeks>        --sample-size <n>
  --redis-addr <host:port>  --cache-ttl <duration>
  --amqp-url <url>          --amqp-exchange <name>
  --log-level <level>       --log-format text|json
  --format pretty|json

Every flag also reads a SEARCHFIELDS_* environment variable.

COMMANDS
  fields [--exposed]              list the field table
  mapping [--override file]       print the index mapping
  validate [--override file]      test the mapping against the backend
  missing                         list stored fields the table does not know
  serve-metrics [--addr a] [--interval d]
                                  expose Prometheus metrics and scan periodically`)
}
