package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/config"
)

type statsCmd struct {
	cfg   *config.Config
	tz    string
	plain bool
}

func (*statsCmd) Name() string { return "stats" }
func (*statsCmd) Synopsis() string { return "show collection statistics" }
func (*statsCmd) Usage() string {
	return `zbirka stats [-tz <zone>] [-plain]

  Prints item totals, the condition breakdown and cumulative growth per
  month of the collection.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.StringVar(&c.tz, "tz", "", "IANA time zone used to group months (default: local)")
	f.BoolVar(&c.plain, "plain", false, "print raw Markdown")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc := time.Local
	if c.tz != "" {
		l, err := time.LoadLocation(c.tz)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unknown time zone %q\n", c.tz)
			return subcommands.ExitUsageError
		}
		loc = l
	}

	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	md := statsMarkdown(coll.items.Items(), coll.items.UserName(ctx), loc)
	if err := printMarkdown(os.Stdout, md, c.plain); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
