package pagination

// Entry is one slot of the page-number strip: a page button or an ellipsis.
type Entry struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Window lists page 1, an ellipsis when the current page is past 3, the
// current page with its neighbours, an ellipsis when more than two pages
// follow, and the last page.
func Window(s State) []Entry {
	s = Normalize(s)
	c, total := s.CurrentPage, s.TotalPages

	page := func(n int) Entry { return Entry{Page: n, Current: n == c} }

	out := []Entry{page(1)}
	if c > 3 {
		out = append(out, Entry{Ellipsis: true})
	}
	for n := max(2, c-1); n <= min(total-1, c+1); n++ {
		out = append(out, page(n))
	}
	if c < total-2 {
		out = append(out, Entry{Ellipsis: true})
	}
	if total > 1 {
		out = append(out, page(total))
	}
	return out
}
