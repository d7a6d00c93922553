package commands

import (
	"context"
	"io"
	"os"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
	"github.com/nonibytes/searchfields/pkg/searchfields"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// openClient opens the configured backend. Callers close the client.
func openClient(ctx context.Context, g cliopt.GlobalOptions, m *metrics.Metrics) (*searchfields.Client, error) {
	opts := searchfields.OpenOptionsFromCLI(g)
	opts.Logger = cliutil.NewLogger(g)
	opts.Metrics = m
	return searchfields.Open(ctx, opts)
}

// readOverride loads the --override descriptor when one was given.
func readOverride(path string) (*schema.Descriptor, error) {
	if path == "" {
		return nil, nil
	}
	return cliutil.ReadDescriptor(path)
}
