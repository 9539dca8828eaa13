package matcher

import (
	"strings"
	"sync"

	inventorydomain "github.com/smallbiznis/quotedesk/internal/inventory/domain"
)

// Throttle remembers the last query of one input so repeated keystrokes do not
// rescan the whole inventory. A query that extends the previous one is
// filtered from the previous matches only.
type Throttle struct {
	mu       sync.Mutex
	source   []inventorydomain.Item
	lastKey  string
	lastHits []inventorydomain.Item
	valid    bool
}

func NewThrottle() *Throttle {
	return &Throttle{}
}

// Suggest returns the same items as Suggest(query, inventory) collected.
func (t *Throttle) Suggest(query string, inventory []inventorydomain.Item) []inventorydomain.Item {
	needle := normalize(query)
	if queryTooShort(needle) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.sameSource(inventory) {
		t.valid = false
	}

	if t.valid && needle == t.lastKey {
		return cloneItems(t.lastHits)
	}

	candidates := inventory
	if t.valid && strings.Contains(needle, t.lastKey) {
		candidates = t.lastHits
	}

	hits := make([]inventorydomain.Item, 0)
	for _, item := range candidates {
		if matches(item, needle) {
			hits = append(hits, item)
		}
	}

	t.source = inventory
	t.lastKey = needle
	t.lastHits = hits
	t.valid = true
	return cloneItems(hits)
}

// Reset forgets the remembered query.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.valid = false
	t.lastHits = nil
	t.lastKey = ""
	t.source = nil
}

// sameSource compares slice identity; a refreshed catalog is a new slice.
func (t *Throttle) sameSource(inventory []inventorydomain.Item) bool {
	if len(t.source) != len(inventory) {
		return false
	}
	if len(inventory) == 0 {
		return true
	}
	return &t.source[0] == &inventory[0]
}

func cloneItems(items []inventorydomain.Item) []inventorydomain.Item {
	out := make([]inventorydomain.Item, len(items))
	copy(out, items)
	return out
}
