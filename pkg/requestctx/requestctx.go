// Package requestctx carries per-request cashier identity through context.
package requestctx

import "context"

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxAuthToken contextKey = "auth_token"
)

// WithSessionID injects the POS session that owns the request's drafts.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithAuthToken stores the caller's backend token so outbound calls can forward it.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAuthToken, token)
}

func AuthToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAuthToken).(string); ok {
		return v
	}
	return ""
}
