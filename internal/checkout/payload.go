package checkout

import (
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Payload types.
const (
	PayloadTypeSale   = "sale"
	PayloadTypeRepair = "repair"
)

// SaleDetail is one sold line.
type SaleDetail struct {
	ID          string          `json:"id,omitempty"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
}

// SalePayload is the record sent for a sale or repair. Tax and extra fields
// are present only for the variant that produced them.
type SalePayload struct {
	Type              string           `json:"type"`
	TaxVariant        string           `json:"tax_variant,omitempty"`
	Invoice           string           `json:"invoice,omitempty"`
	CustomerID        string           `json:"customer_id"`
	CustomerName      string           `json:"customer_name,omitempty"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	SubtotalPlusExtra *decimal.Decimal `json:"subtotalPlusExtra,omitempty"`
	Extra             *decimal.Decimal `json:"extra,omitempty"`
	PPH               *decimal.Decimal `json:"pph,omitempty"`
	PPHNominal        *decimal.Decimal `json:"pph_nominal,omitempty"`
	PPN               *decimal.Decimal `json:"ppn,omitempty"`
	PPNNominal        *decimal.Decimal `json:"ppn_nominal,omitempty"`
	Nego              *decimal.Decimal `json:"nego,omitempty"`
	DP                decimal.Decimal  `json:"dp"`
	GrandTotal        decimal.Decimal  `json:"grand_total"`
	Status            string           `json:"status"`
	Details           []SaleDetail     `json:"details,omitempty"`
}

// RentalDetail is one rented line with its period.
type RentalDetail struct {
	ID          string          `json:"id,omitempty"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Qty         int             `json:"qty"`
	RentPrice   decimal.Decimal `json:"rent_price"`
	StartDate   types.Date      `json:"start_date"`
	EndDate     types.Date      `json:"end_date"`
}

// RentalPayload is the record sent for a rental.
type RentalPayload struct {
	Invoice        string          `json:"invoice,omitempty"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	DP             decimal.Decimal `json:"dp"`
	Status         string          `json:"status"`
	TotalRentPrice decimal.Decimal `json:"total_rent_price"`
	Details        []RentalDetail  `json:"details"`
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func buildSalePayload(d *cart.Draft, v pricing.Variant, t pricing.Totals, status string) SalePayload {
	p := SalePayload{
		Type:         PayloadTypeSale,
		Invoice:      d.Invoice,
		CustomerID:   d.Customer.ID,
		CustomerName: d.Customer.Name,
		Subtotal:     t.Subtotal,
		DP:           t.DownPayment,
		GrandTotal:   t.Payable,
		Status:       status,
	}
	if d.Kind == enums.DraftKindRepair {
		p.Type = PayloadTypeRepair
	} else {
		p.TaxVariant = v.Name
	}
	if v.HasExtra() {
		p.Extra = ptr(t.Extra)
		p.SubtotalPlusExtra = ptr(t.PostExtra)
	}
	switch v.TaxField {
	case pricing.FieldValueAdded:
		p.PPN = ptr(t.TaxPercent)
		p.PPNNominal = ptr(t.TaxNominal)
	default:
		p.PPH = ptr(t.TaxPercent)
		p.PPHNominal = ptr(t.TaxNominal)
	}
	if v.Discount {
		p.Nego = ptr(t.Discount)
	}
	for _, l := range d.Lines {
		if l.Qty <= 0 {
			continue
		}
		p.Details = append(p.Details, SaleDetail{
			ID:          l.DetailID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Qty:         l.Qty,
			Price:       l.UnitPrice,
		})
	}
	return p
}

func buildRentalPayload(d *cart.Draft, t pricing.RentalTotals, status string) RentalPayload {
	p := RentalPayload{
		Invoice:        d.Invoice,
		CustomerID:     d.Customer.ID,
		CustomerName:   d.Customer.Name,
		DP:             t.DownPayment,
		Status:         status,
		TotalRentPrice: t.TotalRent,
		Details:        make([]RentalDetail, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		p.Details = append(p.Details, RentalDetail{
			ID:          l.DetailID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Qty:         l.Qty,
			RentPrice:   l.RentRate,
			StartDate:   l.StartDate,
			EndDate:     l.EndDate,
		})
	}
	return p
}
