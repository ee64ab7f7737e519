package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/erazemk/zbirka/internal/config"
	"github.com/erazemk/zbirka/internal/imaging"
	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/query"
)

const dateLayout = "2006-01-02"

type addCmd struct {
	cfg       *config.Config
	category  string
	condition string
	date      string
	notes     string
	image     string
	wishlist  bool
	priority  string
}

func (*addCmd) Name() string { return "add" }
func (*addCmd) Synopsis() string { return "add an item to the collection or the wishlist" }
func (*addCmd) Usage() string {
	return `zbirka add -category <name> [-condition New|Used|Rare] [-date YYYY-MM-DD] [-notes <text>] [-image <file>] <name>
zbirka add -wishlist [-priority Low|Medium|High] [-notes <text>] [-image <file>] <name>

  Adds one item. Collection items need a category; the purchase date
  defaults to today. Wishlist items are filed under "Wish List".
` + offlineNote
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.StringVar(&c.category, "category", "", "category of a collection item")
	f.StringVar(&c.condition, "condition", string(model.ConditionNew), "condition: New, Used or Rare")
	f.StringVar(&c.date, "date", "", "purchase date, YYYY-MM-DD (default: today)")
	f.StringVar(&c.notes, "notes", "", "free-form notes")
	f.StringVar(&c.image, "image", "", "JPEG or PNG photo")
	f.BoolVar(&c.wishlist, "wishlist", false, "add to the wishlist instead of the collection")
	f.StringVar(&c.priority, "priority", string(model.PriorityMedium), "wishlist priority: Low, Medium or High")
}

// build turns the parsed flags into an item.
func (c *addCmd) build(name string, photo []byte, now time.Time) (model.Item, error) {
	if name == "" {
		return model.Item{}, fmt.Errorf("item name required")
	}

	if c.wishlist {
		p := model.Priority(c.priority)
		if !p.Valid() {
			return model.Item{}, fmt.Errorf("unknown priority %q", c.priority)
		}
		return model.NewWishlistItem(name, c.notes, photo, p, now), nil
	}

	if c.category == "" {
		return model.Item{}, fmt.Errorf("-category required for collection items")
	}
	cond := model.Condition(c.condition)
	if !cond.Valid() {
		return model.Item{}, fmt.Errorf("unknown condition %q", c.condition)
	}
	purchased := now
	if c.date != "" {
		d, err := time.ParseInLocation(dateLayout, c.date, time.Local)
		if err != nil {
			return model.Item{}, fmt.Errorf("invalid -date: %w", err)
		}
		purchased = d
	}
	return model.NewItem(name, c.category, purchased, cond, c.notes, photo), nil
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var photo []byte
	if c.image != "" {
		file, err := os.Open(c.image)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		photo, err = imaging.Compress(file)
		file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.image, err)
			return subcommands.ExitFailure
		}
	}

	item, err := c.build(strings.Join(f.Args(), " "), photo, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	coll.items.Add(ctx, item)
	fmt.Println(item.ID)
	return subcommands.ExitSuccess
}

type listCmd struct {
	cfg    *config.Config
	search string
	sort   string
	view   string
	plain  bool
}

func (*listCmd) Name() string { return "list" }
func (*listCmd) Synopsis() string { return "list items" }
func (*listCmd) Usage() string {
	return `zbirka list [-view all|collection|wishlist] [-search <text>] [-sort name|date] [-plain]

  Prints items as a table. -search and -sort apply to -view all; the
  wishlist is always ordered by priority.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	storageFlags(f, c.cfg)
	f.StringVar(&c.view, "view", "all", "which items: all, collection or wishlist")
	f.StringVar(&c.search, "search", "", "case-insensitive name filter")
	f.StringVar(&c.sort, "sort", string(query.SortByName), "sort order: name or date")
	f.BoolVar(&c.plain, "plain", false, "print raw Markdown")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	coll, err := openCollection(ctx, c.cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer coll.Close()

	all := coll.items.Items()
	var items []model.Item
	switch c.view {
	case "all":
		items = query.FilteredAndSorted(all, c.search, query.ParseSort(c.sort))
	case "collection":
		items = query.CollectionItems(all)
	case "wishlist":
		items = query.WishlistItems(all)
	default:
		fmt.Fprintf(os.Stderr, "unknown view %q\n", c.view)
		return subcommands.ExitUsageError
	}

	if err := printMarkdown(os.Stdout, listMarkdown(items), c.plain); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
