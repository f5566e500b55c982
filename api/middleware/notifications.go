package middleware

import (
	"net/http"

	"github.com/angelmondragon/rentpos-backend/internal/notify"
)

// Notifications gives each request its own recorder so toasts raised while
// serving it ride back on the response envelope.
func Notifications() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := notify.WithRecorder(r.Context(), &notify.Recorder{})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
