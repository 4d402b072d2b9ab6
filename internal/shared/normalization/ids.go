package normalization

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID parses a route id. Empty input yields (0, false, nil) which callers treat as
// create mode; anything not a positive integer is ErrInvalidID.
func ParseID(raw string) (int64, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, ErrInvalidID
	}
	return id, true, nil
}

// JoinIDs renders ids as a comma separated query value.
func JoinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(parts, ",")
}

// SplitIDs parses a comma separated id list, skipping anything that is not a positive integer.
func SplitIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, ok, err := ParseID(part); err == nil && ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
