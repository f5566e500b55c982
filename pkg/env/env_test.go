package env

import "testing"

func TestGetFallsBackWhenBlank(t *testing.T) {
	t.Setenv("RENTPOS_TEST_VALUE", "  ")
	if got := Get("RENTPOS_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("RENTPOS_TEST_VALUE", "console")
	if got := Get("RENTPOS_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("RENTPOS_TEST_FLAG", "true")
	if !Bool("RENTPOS_TEST_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("RENTPOS_TEST_FLAG", "nope")
	if Bool("RENTPOS_TEST_FLAG", false) {
		t.Fatalf("malformed value should fall back")
	}
}
