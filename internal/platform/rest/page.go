package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is the paginated envelope every backend list returns.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// DecodePage accepts either the envelope or a bare array. A bare array becomes a single
// page holding every item.
func DecodePage[T any](raw []byte) (Page[T], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return SinglePage[T](nil), nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return SinglePage(items), nil
	}
	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return Page[T]{}, fmt.Errorf("decode page: %w", err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	page.Meta = page.Meta.normalized(len(page.Data))
	return page, nil
}

func SinglePage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: Meta{Total: len(items), Page: 1, Limit: len(items), TotalPages: 1},
	}
}

func (m Meta) normalized(count int) Meta {
	if m.Page <= 0 {
		m.Page = 1
	}
	if m.Limit <= 0 {
		m.Limit = count
	}
	if m.TotalPages <= 0 {
		if m.Limit > 0 && m.Total > 0 {
			m.TotalPages = (m.Total + m.Limit - 1) / m.Limit
		} else {
			m.TotalPages = 1
		}
	}
	return m
}
