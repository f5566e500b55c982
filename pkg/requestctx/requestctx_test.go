package requestctx

import (
	"context"
	"testing"
)

func TestSessionAndTokenRoundTrip(t *testing.T) {
	ctx := WithSessionID(context.Background(), "till-3")
	ctx = WithAuthToken(ctx, "Bearer abc")

	if got := SessionID(ctx); got != "till-3" {
		t.Fatalf("unexpected session %q", got)
	}
	if got := AuthToken(ctx); got != "Bearer abc" {
		t.Fatalf("unexpected token %q", got)
	}
	if SessionID(context.Background()) != "" || AuthToken(context.Background()) != "" {
		t.Fatalf("empty contexts should yield empty values")
	}
}
