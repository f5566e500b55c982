package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentpos-backend/api/responses"
	"github.com/angelmondragon/rentpos-backend/api/validators"
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
)

type quoteItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	RentPrice decimal.Decimal `json:"rent_price"`
	Qty       int             `json:"qty" validate:"gte=1"`
	StartDate types.Date      `json:"start_date"`
	EndDate   types.Date      `json:"end_date"`
}

type quoteRequest struct {
	Variant     enums.TaxVariant    `json:"variant" validate:"omitempty,oneof=pph ppn"`
	Items       []quoteItem         `json:"items" validate:"dive"`
	Adjustments pricing.Adjustments `json:"adjustments"`
}

func (req quoteRequest) draft(kind enums.DraftKind) *cart.Draft {
	d := &cart.Draft{
		Kind:        kind,
		Lines:       make([]cart.Line, 0, len(req.Items)),
		Adjustments: req.Adjustments,
	}
	if kind == enums.DraftKindSale {
		d.TaxVariant = req.Variant
	}
	if kind == enums.DraftKindRepair {
		return d
	}
	for _, item := range req.Items {
		d.Lines = append(d.Lines, cart.Line{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			RentRate:  item.RentPrice,
			Qty:       item.Qty,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
		})
	}
	return d
}

// Quote prices an ad-hoc draft of kind without touching the session draft.
// Corrections are applied and reported exactly as a draft edit would.
func Quote(svc cart.Service, kind enums.DraftKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Quote(r.Context(), body.draft(kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(r.Context(), w, view)
	}
}
