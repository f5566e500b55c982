package instance

import "testing"

func TestGetIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.2")
	if got := GetID(); got != "web.2" {
		t.Fatalf("expected dyno id, got %q", got)
	}

	t.Setenv("DYNO", "")
	if got := GetID(); got == "" {
		t.Fatalf("expected a fallback id")
	}
}
