package listing

import (
	"testing"

	"agendaConsole/internal/platform/rest"
)

func TestNewPager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		meta    rest.Meta
		label   string
		prev    int
		next    int
		visible bool
	}{
		{name: "first of three", meta: rest.Meta{Total: 25, Page: 1, Limit: 10, TotalPages: 3}, label: "Página 1 de 3", prev: 1, next: 2, visible: true},
		{name: "last of three", meta: rest.Meta{Page: 3, TotalPages: 3}, label: "Página 3 de 3", prev: 2, next: 3, visible: true},
		{name: "beyond the end", meta: rest.Meta{Page: 9, TotalPages: 3}, label: "Página 3 de 3", prev: 2, next: 3, visible: true},
		{name: "single page hidden", meta: rest.Meta{Page: 1, TotalPages: 1}, label: "Página 1 de 1", prev: 1, next: 1},
		{name: "empty list", meta: rest.Meta{}, label: "Página 1 de 1", prev: 1, next: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pager := NewPager(tt.meta)
			if pager.Label != tt.label || pager.Prev != tt.prev || pager.Next != tt.next || pager.Visible != tt.visible {
				t.Fatalf("unexpected pager %+v", pager)
			}
		})
	}

	if got := NewPager(rest.Meta{Page: 2, TotalPages: 4}).Clamp(0); got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
}
