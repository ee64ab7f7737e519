package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/query"
)

// printMarkdown renders md for the terminal, or writes it as is when plain.
func printMarkdown(w io.Writer, md string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string {
	return cellEscaper.Replace(s)
}

// listMarkdown renders items as a table.
func listMarkdown(items []model.Item) string {
	if len(items) == 0 {
		return "_No items._\n"
	}

	var b strings.Builder
	b.WriteString("| Name | Category | Date | Condition | Priority | ID |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, it := range items {
		priority := ""
		if it.IsInWishlist {
			priority = string(it.Priority)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n",
			cell(it.Name), cell(it.Category), it.PurchaseDate.Local().Format(dateLayout),
			it.Condition, priority, it.ID)
	}
	return b.String()
}

// statsMarkdown renders the statistics report. Months are grouped in loc.
func statsMarkdown(items []model.Item, userName string, loc *time.Location) string {
	var b strings.Builder

	title := "Collection statistics"
	if userName != "" {
		title = cell(userName) + "'s collection"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	sum := query.Summarize(items)
	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total items | %d |\n", sum.TotalItems)
	fmt.Fprintf(&b, "| In collection | %d |\n", sum.CollectionItems)
	fmt.Fprintf(&b, "| On wishlist | %d |\n", sum.WishlistItems)
	fmt.Fprintf(&b, "| Categories | %d |\n", sum.UniqueCategories)

	b.WriteString("\n## Condition\n\n")
	b.WriteString("| Condition | Items | Share |\n|---|---:|---:|\n")
	for _, s := range query.ConditionShares(items) {
		fmt.Fprintf(&b, "| %s | %d | %.1f%% |\n", s.Condition, s.Count, s.Fraction*100)
	}

	b.WriteString("\n## Growth\n\n")
	growth := query.MonthlyGrowthIn(items, loc)
	if len(growth) == 0 {
		b.WriteString("_Nothing collected yet._\n")
		return b.String()
	}
	b.WriteString("| Month | Items |\n|---|---:|\n")
	for _, m := range growth {
		fmt.Fprintf(&b, "| %s | %d |\n", m.Month.Format("2006-01"), m.Count)
	}
	return b.String()
}
