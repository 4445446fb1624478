package domain

// Pagination limits
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a requested page slice. Both fields are always >= 1.
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page and limit to valid values. Out-of-range or zero
// inputs fall back to defaults rather than producing an error, so callers
// can pass parsed query parameters straight through.
func NewPage(page, limit int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Page: page, Limit: limit}
}

// Offset returns the number of records to skip for this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the response block accompanying every paginated list.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// PageOf builds the pagination block for a total record count.
// Pages is ceil(total/limit), and 0 exactly when total is 0.
func PageOf(total int, page Page) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + page.Limit - 1) / page.Limit
	}
	return Pagination{
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
		Pages: pages,
	}
}
