package controllers

import (
	"net/http"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/api/validators"
	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

// CheckoutPreview validates the draft and returns the confirmation summary.
func CheckoutPreview(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.Preview(r.Context(), session, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, out)
	}
}

type checkoutRequest struct {
	Confirm bool `json:"confirm"`
}

// CheckoutSubmit runs the checkout with the cashier's confirmation answer.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := svc.Checkout(r.Context(), session, kind, body.Confirm)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(r.Context(), w, outcomeStatus(out), out)
	}
}

func outcomeStatus(out *checkout.Outcome) int {
	switch {
	case out.State == enums.CheckoutStateSucceeded:
		return http.StatusCreated
	case out.Rejected():
		return http.StatusUnprocessableEntity
	case out.State == enums.CheckoutStateFailed:
		return http.StatusBadGateway
	}
	return http.StatusOK
}
