// Package pagination tracks which page of the remote quotation list is shown
// and computes the page-number strip under it.
package pagination

// DefaultItemsPerPage is the fixed list page size.
const DefaultItemsPerPage = 10

// State mirrors the pagination block of a list response.
type State struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// InitialState is shown before the first list response arrives.
func InitialState() State {
	return State{CurrentPage: 1, TotalPages: 1, TotalItems: 0, ItemsPerPage: DefaultItemsPerPage}
}

// Normalize repairs a state so that 1 <= CurrentPage <= TotalPages.
// A zero-filled state becomes InitialState.
func Normalize(s State) State {
	if s.ItemsPerPage <= 0 {
		s.ItemsPerPage = DefaultItemsPerPage
	}
	if s.TotalItems < 0 {
		s.TotalItems = 0
	}
	if s.TotalPages < 1 {
		s.TotalPages = 1
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	if s.CurrentPage > s.TotalPages {
		s.CurrentPage = s.TotalPages
	}
	return s
}

// HasPrev and HasNext drive the enabled state of the arrow buttons.
func (s State) HasPrev() bool { return s.CurrentPage > 1 }

func (s State) HasNext() bool { return s.CurrentPage < s.TotalPages }

// Contains reports whether page is a valid target.
func (s State) Contains(page int) bool {
	return page >= 1 && page <= s.TotalPages
}

// FirstItem and LastItem are the 1-based bounds of the "Showing x to y of z" label.
func (s State) FirstItem() int {
	if s.TotalItems == 0 {
		return 0
	}
	return (s.CurrentPage-1)*s.ItemsPerPage + 1
}

func (s State) LastItem() int {
	return min(s.CurrentPage*s.ItemsPerPage, s.TotalItems)
}
