package notify

import (
	"context"
	"sync"
)

// Recorder collects notifications raised while serving one request.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// Drain returns the recorded notifications and clears the recorder.
func (r *Recorder) Drain() []Notification {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	return out
}

type recorderKey struct{}

// WithRecorder attaches rec to ctx for ContextSink.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// RecorderFrom returns the recorder attached to ctx, or nil.
func RecorderFrom(ctx context.Context) *Recorder {
	if ctx == nil {
		return nil
	}
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}

// ContextSink forwards notifications to whatever Recorder the request carries.
var ContextSink Notifier = NotifierFunc(func(ctx context.Context, n Notification) {
	if rec := RecorderFrom(ctx); rec != nil {
		rec.Notify(ctx, n)
	}
})
