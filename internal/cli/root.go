package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/nonibytes/searchfields/internal/cli/commands"
	"github.com/nonibytes/searchfields/internal/cliopt"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	globalFS := flag.NewFlagSet("searchfields", flag.ContinueOnError)
	globalFS.SetOutput(os.Stderr)
	g := cliopt.DefaultGlobalOptions()
	cliopt.BindGlobalFlags(globalFS, &g)

	if err := globalFS.Parse(argv); err != nil {
		// flag package already printed the error
		return 2
	}

	args := globalFS.Args()
	if len(args) == 0 {
		PrintRootHelp(os.Stdout)
		return 0
	}

	verb := args[0]
	rest := args[1:]

	switch verb {
	case "--help", "-h", "help":
		PrintRootHelp(os.Stdout)
		return 0
	case "fields":
		return commands.RunFields(g, rest)
	case "mapping":
		return commands.RunMapping(g, rest)
	case "validate":
		return commands.RunValidate(g, rest)
	case "missing":
		return commands.RunMissing(g, rest)
	case "serve-metrics":
		return commands.RunServeMetrics(g, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", verb)
		PrintRootHelp(os.Stderr)
		return 2
	}
}
