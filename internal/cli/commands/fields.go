package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
	"github.com/nonibytes/searchfields/pkg/searchfields"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema/source"
)

// RunFields prints the field table. It needs no backend.
func RunFields(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var exposed bool
	fs.BoolVar(&exposed, "exposed", false, "only list exposed fields")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

	src, err := source.Open(g.Schema, searchfields.OpenOptionsFromCLI(g).SchemaOptions)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	table, err := src.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if exposed {
		for name, d := range table {
			if !d.IsExposed {
				delete(table, name)
			}
		}
	}

	if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
		if err := cliutil.PrintJSON(stdout, cliutil.FormatJSON, table); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	for _, name := range table.Names() {
		d := table[name]
		storage := "-"
		if d.HasStorage() {
			storage = d.Path()
		}
		fmt.Fprintf(stdout, "%-28s %-10s %s\n", name, d.QueryType, storage)
	}
	return 0
}
