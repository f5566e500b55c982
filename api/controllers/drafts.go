package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/api/validators"
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
)

// DraftGet returns the session's draft with its computed totals.
func DraftGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Get(r.Context(), session, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

// DraftReset clears lines, customer and adjustments and leaves edit mode.
func DraftReset(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Reset(r.Context(), session, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type addItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	RentPrice decimal.Decimal `json:"rent_price"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	Stock     int             `json:"stock"`
}

func (req addItemRequest) product() cart.Product {
	return cart.Product{
		ID:        validators.SanitizeString(req.ProductID, 64),
		Name:      validators.SanitizeString(req.Name, 255),
		Price:     req.Price,
		RentPrice: req.RentPrice,
		Category:  req.Category,
		Image:     req.Image,
		Stock:     req.Stock,
	}
}

// DraftAddItem adds one unit of a product, merging with an existing line.
func DraftAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddProduct(r.Context(), session, kind, body.product())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type changeQtyRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// DraftChangeQty applies a quantity delta; a line dropping below one is removed.
func DraftChangeQty(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body changeQtyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ChangeQty(r.Context(), session, kind, lineID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type setDatesRequest struct {
	StartDate types.Date `json:"start_date"`
	EndDate   types.Date `json:"end_date"`
}

func DraftSetDates(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setDatesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetDates(r.Context(), session, kind, lineID, body.StartDate, body.EndDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

func DraftRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineID, err := lineIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveLine(r.Context(), session, kind, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type setCustomerRequest struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func DraftSetCustomer(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer := cart.Customer{
			ID:      validators.SanitizeString(body.ID, 64),
			Name:    validators.SanitizeString(body.Name, 255),
			Address: validators.SanitizeString(body.Address, 500),
			Phone:   validators.SanitizeString(body.Phone, 32),
		}
		view, err := svc.SetCustomer(r.Context(), session, kind, customer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

func DraftClearCustomer(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.ClearCustomer(r.Context(), session, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type setVariantRequest struct {
	Variant enums.TaxVariant `json:"variant" validate:"required,oneof=pph ppn"`
}

// DraftSetVariant switches a sale draft between the PPH and PPN pipelines.
func DraftSetVariant(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setVariantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetTaxVariant(r.Context(), session, kind, body.Variant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}

type setAdjustmentRequest struct {
	Value pricing.Input `json:"value"`
}

// DraftSetAdjustment runs one adjustment through the guard. A corrected value
// comes back on the view together with a warning notification.
func DraftSetAdjustment(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, kind, err := draftScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		field, err := fieldParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setAdjustmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetAdjustment(r.Context(), session, kind, field, body.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}
