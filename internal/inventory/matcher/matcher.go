// Package matcher filters inventory items against a partially typed
// description and applies a chosen suggestion to a draft row.
package matcher

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/draft"
)

// MinQueryRunes is the shortest trimmed query that produces suggestions.
const MinQueryRunes = 2

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func queryTooShort(normalized string) bool {
	return utf8.RuneCountInString(normalized) < MinQueryRunes
}

func matches(item inventorydomain.Item, needle string) bool {
	return strings.Contains(strings.ToLower(item.Description), needle)
}

// Suggest yields the items whose description contains query, ignoring case,
// in inventory order. The sequence can be ranged over more than once.
func Suggest(query string, inventory []inventorydomain.Item) iter.Seq[inventorydomain.Item] {
	needle := normalize(query)
	return func(yield func(inventorydomain.Item) bool) {
		if queryTooShort(needle) {
			return
		}
		for _, item := range inventory {
			if !matches(item, needle) {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Collect materializes up to limit suggestions. A limit <= 0 means no limit.
func Collect(seq iter.Seq[inventorydomain.Item], limit int) []inventorydomain.Item {
	if limit <= 0 {
		return slices.Collect(seq)
	}
	out := make([]inventorydomain.Item, 0, limit)
	for item := range seq {
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SelectSuggestion copies the item's description and rate into the row at
// index and re-derives the amount and totals.
func SelectSuggestion(doc domain.Quotation, index int, item inventorydomain.Item) (domain.Quotation, error) {
	return draft.SetItemDescriptionAndRate(doc, index, item.Description, item.Rate)
}
