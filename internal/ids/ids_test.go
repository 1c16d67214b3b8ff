package ids

import (
	"strings"
	"testing"
	"time"
)

func TestNewIsMonotonic(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prev := NewAt(ts)
	for i := 0; i < 100; i++ {
		next := NewAt(ts)
		if next <= prev {
			t.Fatalf("id %q not greater than %q", next, prev)
		}
		prev = next
	}
}

func TestWithPrefix(t *testing.T) {
	id := WithPrefix("perk", time.Now())
	if !strings.HasPrefix(id, "perk-") {
		t.Fatalf("id = %q, want perk- prefix", id)
	}
	if len(id) != len("perk-")+26 {
		t.Fatalf("unexpected id length %d", len(id))
	}
}
