package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
)

func sessionFrom(r *http.Request) (string, error) {
	session := requestctx.SessionID(r.Context())
	if session == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session missing")
	}
	return session, nil
}

func kindParam(r *http.Request) (enums.DraftKind, error) {
	kind, err := enums.ParseDraftKind(strings.ToLower(chi.URLParam(r, "kind")))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid draft kind").
			WithDetails(map[string]any{"field": "kind"})
	}
	return kind, nil
}

func lineIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "lineId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id").
			WithDetails(map[string]any{"field": "lineId"})
	}
	return id, nil
}

func fieldParam(r *http.Request) (pricing.Field, error) {
	field, err := pricing.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid adjustment field").
			WithDetails(map[string]any{"field": "field"})
	}
	return field, nil
}

func idParam(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	return id, nil
}

// draftScope resolves the session and draft kind every draft route works on.
func draftScope(r *http.Request) (string, enums.DraftKind, error) {
	session, err := sessionFrom(r)
	if err != nil {
		return "", "", err
	}
	kind, err := kindParam(r)
	if err != nil {
		return "", "", err
	}
	return session, kind, nil
}
