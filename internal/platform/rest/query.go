package rest

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PagedQuery carries paging and filters for list endpoints.
type PagedQuery struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// Normalize returns a sanitized copy applying defaults and bounds.
func (q PagedQuery) Normalize(defaultLimit int) PagedQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultLimit
	}
	if normalized.Limit > 500 {
		normalized.Limit = 500
	}
	normalized.Filters = sanitizeFilters(normalized.Filters)
	return normalized
}

func (q PagedQuery) ToURLValues(defaultLimit int) url.Values {
	normalized := q.Normalize(defaultLimit)
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("limit", strconv.Itoa(normalized.Limit))
	for key, value := range normalized.Filters {
		values.Set(key, value)
	}
	return values
}

// CanonicalKey builds a stable key for the combination of paging parameters.
func (q PagedQuery) CanonicalKey() string {
	normalized := q.Normalize(0)
	keys := make([]string, 0, len(normalized.Filters))
	for key := range normalized.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString("page=")
	builder.WriteString(strconv.Itoa(normalized.Page))
	builder.WriteString("&limit=")
	builder.WriteString(strconv.Itoa(normalized.Limit))
	for _, key := range keys {
		builder.WriteString("&")
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(normalized.Filters[key])
	}
	return builder.String()
}

// Filter keys are kept verbatim since the backend's filters are camelCase (userId, clientId).
func sanitizeFilters(filters map[string]string) map[string]string {
	if len(filters) == 0 {
		return nil
	}
	sanitized := make(map[string]string, len(filters))
	for key, value := range filters {
		trimmedKey := strings.TrimSpace(key)
		trimmedValue := strings.TrimSpace(value)
		if trimmedKey == "" || trimmedValue == "" {
			continue
		}
		sanitized[trimmedKey] = trimmedValue
	}
	if len(sanitized) == 0 {
		return nil
	}
	return sanitized
}
