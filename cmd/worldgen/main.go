package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&convertCmd{}, "")
	subcommands.Register(&queryCmd{}, "")
	subcommands.Register(&inspectCmd{}, "")
	subcommands.Register(&serveCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
