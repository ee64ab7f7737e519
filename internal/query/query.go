// Package query derives views and statistics from an item list. Every function
// is pure and recomputes from its input.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/erazemk/zbirka/internal/model"
)

// CollectionItems returns owned items in list order.
func CollectionItems(items []model.Item) []model.Item {
	var out []model.Item
	for _, it := range items {
		if !it.IsInWishlist {
			out = append(out, it)
		}
	}
	return out
}

// WishlistItems returns wishlist items, High priority first. Items of equal
// priority keep their list order.
func WishlistItems(items []model.Item) []model.Item {
	var out []model.Item
	for _, it := range items {
		if it.IsInWishlist {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Item) int {
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	})
	return out
}

// UniqueCategoryCount counts distinct categories among collection items.
// Categories are compared exactly.
func UniqueCategoryCount(items []model.Item) int {
	seen := make(map[string]struct{})
	for _, it := range items {
		if !it.IsInWishlist {
			seen[it.Category] = struct{}{}
		}
	}
	return len(seen)
}

// ConditionCounts counts collection items per condition. Every condition has
// an entry.
func ConditionCounts(items []model.Item) map[model.Condition]int {
	counts := make(map[model.Condition]int, len(model.Conditions))
	for _, c := range model.Conditions {
		counts[c] = 0
	}
	for _, it := range items {
		if _, known := counts[it.Condition]; known && !it.IsInWishlist {
			counts[it.Condition]++
		}
	}
	return counts
}

// ConditionShares returns each condition's count and fraction of the
// collection, in model.Conditions order.
func ConditionShares(items []model.Item) []model.ConditionShare {
	counts := ConditionCounts(items)
	total := 0
	for _, c := range model.Conditions {
		total += counts[c]
	}

	shares := make([]model.ConditionShare, 0, len(model.Conditions))
	for _, c := range model.Conditions {
		share := model.ConditionShare{Condition: c, Count: counts[c]}
		if total > 0 {
			share.Fraction = float64(counts[c]) / float64(total)
		}
		shares = append(shares, share)
	}
	return shares
}

// MonthlyGrowth is MonthlyGrowthIn using the local time zone.
func MonthlyGrowth(items []model.Item) []model.MonthlyCount {
	return MonthlyGrowthIn(items, time.Local)
}

// MonthlyGrowthIn groups collection items by the first instant of their
// purchase month in loc and returns the running total per month, oldest first.
func MonthlyGrowthIn(items []model.Item, loc *time.Location) []model.MonthlyCount {
	perMonth := make(map[time.Time]int)
	for _, it := range items {
		if it.IsInWishlist {
			continue
		}
		perMonth[startOfMonth(it.PurchaseDate, loc)]++
	}

	months := make([]time.Time, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	slices.SortFunc(months, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]model.MonthlyCount, 0, len(months))
	total := 0
	for _, m := range months {
		total += perMonth[m]
		out = append(out, model.MonthlyCount{Month: m, Count: total})
	}
	return out
}

func startOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// Summarize returns headline counts for items.
func Summarize(items []model.Item) model.Summary {
	sum := model.Summary{
		TotalItems:       len(items),
		UniqueCategories: UniqueCategoryCount(items),
	}
	for _, it := range items {
		if it.IsInWishlist {
			sum.WishlistItems++
		} else {
			sum.CollectionItems++
		}
	}
	return sum
}

// Sort selects the order of FilteredAndSorted.
type Sort string

// Sort options.
const (
	SortByName Sort = "name"
	SortByDate Sort = "date"
)

// ParseSort maps a query value to a Sort. Unknown values sort by name.
func ParseSort(s string) Sort {
	if Sort(strings.ToLower(s)) == SortByDate {
		return SortByDate
	}
	return SortByName
}

// FilteredAndSorted keeps items whose name contains search, ignoring case, and
// sorts them by name (ascending, ignoring case) or purchase date (newest
// first). An empty search keeps every item.
func FilteredAndSorted(items []model.Item, search string, sort Sort) []model.Item {
	fold := cases.Fold()

	out := make([]model.Item, 0, len(items))
	if search == "" {
		out = append(out, items...)
	} else {
		needle := fold.String(search)
		for _, it := range items {
			if strings.Contains(fold.String(it.Name), needle) {
				out = append(out, it)
			}
		}
	}

	switch sort {
	case SortByDate:
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return b.PurchaseDate.Compare(a.PurchaseDate)
		})
	default:
		col := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
	return out
}
