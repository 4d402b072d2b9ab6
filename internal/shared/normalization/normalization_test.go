package normalization

import (
	"errors"
	"testing"
)

func TestNormalizeEntity(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Appointment":   "appointments",
		" professional": "users",
		"CLIENTS":       "clients",
		"report":        "reports",
		"":              "",
		"unknown_thing": "unknown-thing",
	}
	for raw, want := range cases {
		if got := NormalizeEntity(raw); got != want {
			t.Fatalf("NormalizeEntity(%q) = %q, want %q", raw, got, want)
		}
	}
	if IsValidEntity("tables") {
		t.Fatalf("expected tables to be rejected")
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if id, ok, err := ParseID(" 42 "); err != nil || !ok || id != 42 {
		t.Fatalf("expected 42, got %d %v %v", id, ok, err)
	}
	if _, ok, err := ParseID(""); err != nil || ok {
		t.Fatalf("expected create mode for empty id, got %v %v", ok, err)
	}
	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		if _, _, err := ParseID(raw); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID for %q, got %v", raw, err)
		}
	}
}

func TestJoinAndSplitIDs(t *testing.T) {
	t.Parallel()

	if got := JoinIDs([]int64{1, 0, 2}); got != "1,2" {
		t.Fatalf("unexpected join %q", got)
	}
	ids := SplitIDs("3, x,4,")
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Fatalf("unexpected split %v", ids)
	}
}
