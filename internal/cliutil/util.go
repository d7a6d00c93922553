package cliutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
)

func ParseOutputFormat(s string) OutputFormat {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON:
		return OutputFormat(s)
	default:
		return FormatPretty
	}
}

// PrintJSON writes v indented for pretty output and on one line for json.
func PrintJSON(w io.Writer, format OutputFormat, v any) error {
	var (
		b   []byte
		err error
	)
	if format == FormatJSON {
		b, err = json.Marshal(v)
	} else {
		b, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// NewLogger builds the process logger from the global flags.
func NewLogger(g cliopt.GlobalOptions) *logging.Logger {
	lvl := logging.ParseLevel(g.LogLevel)
	if g.LogFormat == "json" {
		return logging.NewJSON(lvl)
	}
	return logging.NewText(lvl)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// ReadDescriptor loads a single field descriptor from a JSON file. The
// descriptor goes through the same checks as a full table.
func ReadDescriptor(path string) (*schema.Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var name string
	if err := json.Unmarshal(raw["name"], &name); err != nil || name == "" {
		return nil, fmt.Errorf("%s: descriptor needs a string \"name\"", path)
	}
	wrapped, err := json.Marshal(map[string]json.RawMessage{name: b})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	table, err := schema.FromJSON(wrapped)
	if err != nil {
		return nil, err
	}
	d := table[name]
	return &d, nil
}
