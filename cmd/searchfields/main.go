package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/nonibytes/searchfields/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
