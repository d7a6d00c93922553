package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
	"github.com/nonibytes/searchfields/pkg/searchfields"
	"github.com/nonibytes/searchfields/pkg/searchfields/mapping"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema/source"
)

// RunMapping prints the index mapping built from the field table.
func RunMapping(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("mapping", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var overridePath string
	fs.StringVar(&overridePath, "override", "", "descriptor JSON file replacing the field of the same name")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	override, err := readOverride(overridePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
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

	opts := []mapping.BuildOption{mapping.WithDocType(g.DocType)}
	if override != nil {
		opts = append(opts, mapping.WithOverride(*override))
	}
	doc := mapping.Build(table, opts...)

	if err := cliutil.PrintJSON(stdout, cliutil.ParseOutputFormat(g.Format), doc); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
