// Command zbirka serves and manages a personal collection and wishlist.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{cfg: cfg}, "server")
	commander.Register(&addCmd{cfg: cfg}, "items")
	commander.Register(&listCmd{cfg: cfg}, "items")
	commander.Register(&statsCmd{cfg: cfg}, "items")
	commander.Register(&exportCmd{cfg: cfg}, "data")
	commander.Register(&importCmd{cfg: cfg}, "data")
	commander.Register(&clearCmd{cfg: cfg}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
