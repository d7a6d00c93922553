package commands

import (
	"flag"
	"fmt"

	"github.com/nonibytes/searchfields/internal/cliopt"
	"github.com/nonibytes/searchfields/internal/cliutil"
)

// RunMissing lists fields present in recent indices but unknown to the
// field table.
func RunMissing(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("missing", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	ctx, cancel := cliutil.SignalContext()
	defer cancel()

	client, err := openClient(ctx, g, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer client.Close()

	res, err := client.MissingFields(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatJSON {
		if err := cliutil.PrintJSON(stdout, cliutil.FormatJSON, res); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	for _, h := range res.Hits {
		fmt.Fprintln(stdout, h)
	}
	fmt.Fprintf(stdout, "--- %d missing fields ---\n", res.Total)
	return 0
}
