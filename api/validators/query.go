package validators

import (
	"net/http"
	"slices"
	"strings"

	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

// ParseQueryOneOf reads key and requires it to be one of allowed.
func ParseQueryOneOf(r *http.Request, key string, allowed ...string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	if !slices.Contains(allowed, raw) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter has unsupported value").WithDetails(map[string]any{"field": key, "allowed": allowed})
	}
	return raw, nil
}
