package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/api/validators"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
)

// SessionHeader identifies the till whose drafts a request works on.
const SessionHeader = "X-POS-Session"

const maxSessionLen = 64

// Session requires the POS session header and forwards the caller's
// Authorization value so backend calls can reuse it verbatim.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(SessionHeader)
			session := validators.SanitizeString(raw, maxSessionLen)
			if session == "" || len(strings.TrimSpace(raw)) > maxSessionLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, SessionHeader+" header required").
					WithDetails(map[string]any{"header": SessionHeader}))
				return
			}

			ctx := requestctx.WithSessionID(r.Context(), session)
			if token := strings.TrimSpace(r.Header.Get("Authorization")); token != "" {
				ctx = requestctx.WithAuthToken(ctx, token)
			}
			if logg != nil {
				ctx = logg.WithSession(ctx, session)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
