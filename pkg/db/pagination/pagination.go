// Package pagination converts page/per_page query parameters into SQL offsets.
package pagination

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Pagination struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=10"`
}

type PageInfo struct {
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

// Normalize clamps page to >= 1 and per_page to [1, MaxPerPage].
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.PerPage
}

func (p Pagination) Limit() int {
	return p.Normalize().PerPage
}

// BuildPageInfo reports at least one page so an empty store still has page 1.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	p = p.Normalize()
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if pages < 1 {
		pages = 1
	}
	return PageInfo{Page: p.Page, Pages: pages, Total: int(total), PerPage: p.PerPage}
}
