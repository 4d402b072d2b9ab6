package listing

import (
	"fmt"

	"agendaConsole/internal/platform/rest"
)

// Pager is the page navigation under a list.
type Pager struct {
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Label      string `json:"label"`
	Prev       int    `json:"prev"`
	Next       int    `json:"next"`
	HasPrev    bool   `json:"hasPrev"`
	HasNext    bool   `json:"hasNext"`
	Visible    bool   `json:"visible"`
}

// NewPager builds the navigation for meta. It is hidden when everything fits on one page.
func NewPager(meta rest.Meta) Pager {
	total := meta.TotalPages
	if total < 1 {
		total = 1
	}
	page := clamp(meta.Page, total)
	return Pager{
		Page:       page,
		TotalPages: total,
		Label:      fmt.Sprintf("Página %d de %d", page, total),
		Prev:       clamp(page-1, total),
		Next:       clamp(page+1, total),
		HasPrev:    page > 1,
		HasNext:    page < total,
		Visible:    total > 1,
	}
}

// Clamp bounds page to [1, TotalPages].
func (p Pager) Clamp(page int) int {
	return clamp(page, p.TotalPages)
}

func clamp(page, total int) int {
	if total < 1 {
		total = 1
	}
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}
