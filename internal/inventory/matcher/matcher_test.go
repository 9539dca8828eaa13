package matcher

import (
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/quotation/draft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventory() []inventorydomain.Item {
	return []inventorydomain.Item{
		{ID: "1", Description: "Mosquito Net 4x6", Rate: decimal.RequireFromString("150")},
		{ID: "2", Description: "Window Net", Rate: decimal.RequireFromString("90")},
		{ID: "3", Description: "Pleated Door", Rate: decimal.RequireFromString("2200")},
		{ID: "4", Description: "Sliding NET frame", Rate: decimal.RequireFromString("480")},
	}
}

func descriptions(items []inventorydomain.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Description)
	}
	return out
}

func TestSuggestCaseInsensitiveInOrder(t *testing.T) {
	got := slices.Collect(Suggest("net", inventory()))

	assert.Equal(t, []string{"Mosquito Net 4x6", "Window Net", "Sliding NET frame"}, descriptions(got))
}

func TestSuggestShortQueryIsEmpty(t *testing.T) {
	for _, q := range []string{"", " ", "n", "  n  "} {
		assert.Empty(t, slices.Collect(Suggest(q, inventory())), "query %q", q)
	}
}

func TestSuggestNoMatchIsEmpty(t *testing.T) {
	assert.Empty(t, slices.Collect(Suggest("curtain", inventory())))
}

func TestSuggestIsRestartable(t *testing.T) {
	seq := Suggest("ne", inventory())

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestSuggestStopsEarly(t *testing.T) {
	got := Collect(Suggest("ne", inventory()), 1)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Len(t, Collect(Suggest("ne", inventory()), 0), 3)
}

func TestSelectSuggestionSetsDescriptionAndRate(t *testing.T) {
	doc := draft.New(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	doc, err := draft.SetItemField(doc, 0, draft.FieldQty, "3")
	require.NoError(t, err)

	doc, err = SelectSuggestion(doc, 0, inventory()[0])
	require.NoError(t, err)

	assert.Equal(t, "Mosquito Net 4x6", doc.Items[0].Description)
	assert.Equal(t, "150", doc.Items[0].Rate.String())
	assert.Equal(t, "450.00", doc.Items[0].Amount.StringFixed(2))
	assert.Equal(t, "450.00", doc.Totals.TotalAmount.StringFixed(2))

	_, err = SelectSuggestion(doc, 2, inventory()[0])
	assert.ErrorIs(t, err, domain.ErrItemIndex)
}

func TestThrottleMatchesSuggest(t *testing.T) {
	items := inventory()
	th := NewThrottle()

	for _, q := range []string{"ne", "net", "net ", "ne", "wi", "window", "xx", "n"} {
		want := slices.Collect(Suggest(q, items))
		got := th.Suggest(q, items)
		if len(want) == 0 {
			assert.Empty(t, got, "query %q", q)
			continue
		}
		assert.Equal(t, want, got, "query %q", q)
	}
}

func TestThrottleSeesNewInventory(t *testing.T) {
	th := NewThrottle()
	items := inventory()
	assert.Len(t, th.Suggest("net", items), 3)

	refreshed := append(inventory(), inventorydomain.Item{ID: "5", Description: "Net Roll"})
	assert.Len(t, th.Suggest("net", refreshed), 4)

	th.Reset()
	assert.Len(t, th.Suggest("net", items), 3)
}
