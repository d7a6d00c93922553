package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
	"github.com/nonibytes/searchfields/pkg/searchfields"
)

// RunValidate tests the mapping, with an optional override, against the
// backend. Exit code 3 means the backend rejected the mapping.
func RunValidate(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
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

	client, err := openClient(ctx, g, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer client.Close()

	if err := client.TestMapping(ctx, client.Mapping(override)); err != nil {
		fmt.Fprintln(stderr, err)
		if searchfields.IsCode(err, searchfields.ErrBadArgument) {
			return 3
		}
		return 1
	}
	fmt.Fprintln(stdout, "mapping ok")
	return 0
}
