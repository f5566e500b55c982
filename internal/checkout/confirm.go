package checkout

import "context"

// Confirmer asks the cashier to accept a summary before submission.
type Confirmer interface {
	Confirm(ctx context.Context, s Summary) (bool, error)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, s Summary) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, s Summary) (bool, error) {
	return f(ctx, s)
}

type answerKey struct{}

// WithAnswer records the cashier's answer for RequestConfirmer.
func WithAnswer(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, answerKey{}, confirmed)
}

// RequestConfirmer reads the answer carried by the request. A request without
// an answer declines.
var RequestConfirmer Confirmer = ConfirmerFunc(func(ctx context.Context, _ Summary) (bool, error) {
	confirmed, _ := ctx.Value(answerKey{}).(bool)
	return confirmed, nil
})
