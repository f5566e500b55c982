package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/api/validators"
	"github.com/angelmondragon/rentpos-backend/internal/records"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

// TransactionEdit loads a stored transaction into the session's sale or repair draft.
func TransactionEdit(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.LoadTransaction(r.Context(), session, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

// RentalEdit loads a stored rental into the session's rental draft.
func RentalEdit(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.LoadRental(r.Context(), session, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type statusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TransactionStatus(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return statusHandler(svc.SetTransactionStatus, logg)
}

func RentalStatus(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return statusHandler(svc.SetRentalStatus, logg)
}

func statusHandler(set func(ctx context.Context, id, status string) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body statusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := set(r.Context(), id, body.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, statusResponse{ID: id, Status: body.Status})
	}
}

type invoiceResponse struct {
	Kind    enums.DraftKind `json:"kind"`
	Invoice string          `json:"invoice"`
}

// InvoiceNext previews the invoice number the next checkout of kind will get.
func InvoiceNext(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.ParseQueryOneOf(r, "kind",
			enums.DraftKindSale.String(), enums.DraftKindRental.String(), enums.DraftKindRepair.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind := enums.DraftKind(raw)
		invoice, err := svc.NextInvoice(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, invoiceResponse{Kind: kind, Invoice: invoice})
	}
}
