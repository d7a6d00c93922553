package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
	"github.com/nonibytes/searchfields/pkg/searchfields"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
)

// RunServeMetrics exposes /metrics and rescans for missing fields on an
// interval until interrupted.
func RunServeMetrics(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("serve-metrics", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var addr string
	var interval time.Duration
	fs.StringVar(&addr, "addr", ":9464", "listen address")
	fs.DurationVar(&interval, "interval", 10*time.Minute, "time between drift scans")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if interval <= 0 {
		fmt.Fprintln(stderr, "--interval must be positive")
		return 2
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client, err := openClient(ctx, g, m)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer client.Close()
	log := cliutil.NewLogger(g)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving metrics", "addr", addr, "interval", interval)

	scan(ctx, client, log)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			scan(ctx, client, log)
		case err := <-errc:
			fmt.Fprintln(stderr, err)
			return 1
		case <-ctx.Done():
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(stderr, err)
				return 1
			}
			return 0
		}
	}
}

func scan(ctx context.Context, client *searchfields.Client, log *logging.Logger) {
	if _, err := client.MissingFields(ctx); err != nil && ctx.Err() == nil {
		log.ErrorContext(ctx, "drift scan failed", "error", err)
	}
}
