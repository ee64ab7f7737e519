package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/natefinch/atomic"

	"github.com/erazemk/zbirka/internal/config"
)

type exportCmd struct {
	cfg    *config.Config
	output string
}

func (*exportCmd) Name() string { return "export" }
func (*exportCmd) Synopsis() string { return "write all items as JSON" }
func (*exportCmd) Usage() string {
	return `zbirka export [-o <file>]

  Writes the whole item list, photos included, as a JSON array. The output
  can be read back with zbirka import.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.StringVar(&c.output, "o", "", "output file (default: stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	data, err := coll.items.ExportJSON()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.output == "" {
		fmt.Println(data)
		return subcommands.ExitSuccess
	}
	if err := atomic.WriteFile(c.output, strings.NewReader(data)); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", len(coll.items.Items()), c.output)
	return subcommands.ExitSuccess
}

type importCmd struct {
	cfg *config.Config
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string { return "replace all items with a JSON export" }
func (*importCmd) Usage() string {
	return `zbirka import <file|->

  Replaces the whole item list with the items in a file written by
  zbirka export. Use - to read from stdin. Invalid input changes nothing.
` + offlineNote
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	var r io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}
	data, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading import: %v\n", err)
		return subcommands.ExitFailure
	}

	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	n, err := coll.items.ImportJSON(ctx, string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d items\n", n)
	return subcommands.ExitSuccess
}

type clearCmd struct {
	cfg *config.Config
	yes bool
}

func (*clearCmd) Name() string { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every item" }
func (*clearCmd) Usage() string {
	return `zbirka clear -yes

  Deletes the whole collection and wishlist. Accounts and the profile name
  are kept.
` + offlineNote
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.BoolVar(&c.yes, "yes", false, "confirm deleting all items")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "refusing to delete all items without -yes")
		return subcommands.ExitUsageError
	}

	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	n := len(coll.items.Items())
	coll.items.ClearAll(ctx)
	fmt.Printf("Deleted %d items\n", n)
	return subcommands.ExitSuccess
}
