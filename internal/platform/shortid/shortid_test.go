package shortid

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		if len(id) != defaultLength {
			t.Fatalf("id length: want=%d got=%d (%q)", defaultLength, len(id), id)
		}
		for _, r := range id {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("id %q contains %q outside alphabet", id, r)
			}
		}
	}
}

func TestWithLength(t *testing.T) {
	if got := len(WithLength(16)); got != 16 {
		t.Fatalf("WithLength(16): got len %d", got)
	}
}

func TestNoImmediateCollisions(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("collision after %d ids: %q", i, id)
		}
		seen[id] = true
	}
}
