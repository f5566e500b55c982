package cart

import (
	"strings"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/adjustments"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the party a draft is billed to.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Product is the catalog snapshot copied onto a line when it is added.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	RentPrice decimal.Decimal `json:"rent_price"`
	Category  string          `json:"category,omitempty"`
	Image     string          `json:"image,omitempty"`
	Stock     int             `json:"stock"`
}

// Line is one product row of a draft.
type Line struct {
	ID        uuid.UUID       `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"price"`
	RentRate  decimal.Decimal `json:"rent_price"`
	Qty       int             `json:"qty"`
	StartDate types.Date      `json:"start_date"`
	EndDate   types.Date      `json:"end_date"`
	// DetailID is the stored detail row when the draft edits an existing record.
	DetailID string `json:"detail_id,omitempty"`
}

// Draft is the cashier's working cart for one pipeline.
type Draft struct {
	ID          uuid.UUID           `json:"id"`
	Session     string              `json:"session"`
	Kind        enums.DraftKind     `json:"kind"`
	TaxVariant  enums.TaxVariant    `json:"tax_variant,omitempty"`
	Customer    *Customer           `json:"customer"`
	Lines       []Line              `json:"lines"`
	Adjustments pricing.Adjustments `json:"adjustments"`
	Status      string              `json:"status"`
	Invoice     string              `json:"invoice,omitempty"`
	EditingID   string              `json:"editing_id,omitempty"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Defaults seeds new and reset drafts.
type Defaults struct {
	SaleStatus   string
	RentalStatus string
	SaleVariant  enums.TaxVariant
}

// NewDraft returns an empty draft owned by session.
func NewDraft(session string, kind enums.DraftKind, defaults Defaults) *Draft {
	d := &Draft{
		ID:      uuid.New(),
		Session: session,
		Kind:    kind,
		Lines:   []Line{},
	}
	d.applyDefaults(defaults)
	return d
}

func (d *Draft) applyDefaults(defaults Defaults) {
	d.Status = defaults.SaleStatus
	d.TaxVariant = ""
	switch d.Kind {
	case enums.DraftKindRental:
		d.Status = defaults.RentalStatus
	case enums.DraftKindSale:
		d.TaxVariant = defaults.SaleVariant
		if d.TaxVariant == "" {
			d.TaxVariant = enums.TaxVariantWithholding
		}
	}
}

// IsEditing reports whether the draft was loaded from a stored record.
func (d *Draft) IsEditing() bool {
	return d.EditingID != ""
}

// AddProduct bumps the quantity of the line holding p or appends a new line.
func (d *Draft) AddProduct(p Product) (*Line, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == p.ID {
			d.Lines[i].Qty++
			return &d.Lines[i], nil
		}
	}
	d.Lines = append(d.Lines, Line{
		ID:        uuid.New(),
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		UnitPrice: p.Price,
		RentRate:  p.RentPrice,
		Qty:       1,
	})
	return &d.Lines[len(d.Lines)-1], nil
}

// ChangeQty adds delta to a line's quantity. A line dropping below one is removed.
func (d *Draft) ChangeQty(lineID uuid.UUID, delta int) error {
	idx, err := d.lineIndex(lineID)
	if err != nil {
		return err
	}
	qty := d.Lines[idx].Qty + delta
	if qty < 1 {
		d.removeAt(idx)
		return nil
	}
	d.Lines[idx].Qty = qty
	return nil
}

// Remove drops a line.
func (d *Draft) Remove(lineID uuid.UUID) error {
	idx, err := d.lineIndex(lineID)
	if err != nil {
		return err
	}
	d.removeAt(idx)
	return nil
}

// SetDates sets a rental line's period. Either date may be unset.
func (d *Draft) SetDates(lineID uuid.UUID, start, end types.Date) error {
	if d.Kind != enums.DraftKindRental {
		return pkgerrors.New(pkgerrors.CodeValidation, "rental dates only apply to rental drafts")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must not be before start date").
			WithDetails(map[string]any{"start_date": start.String(), "end_date": end.String()})
	}
	idx, err := d.lineIndex(lineID)
	if err != nil {
		return err
	}
	d.Lines[idx].StartDate = start
	d.Lines[idx].EndDate = end
	return nil
}

// SetCustomer selects the customer the draft is billed to.
func (d *Draft) SetCustomer(c Customer) error {
	if strings.TrimSpace(c.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	d.Customer = &c
	return nil
}

func (d *Draft) ClearCustomer() {
	d.Customer = nil
}

// SetTaxVariant switches a sale draft between PPH and PPN.
func (d *Draft) SetTaxVariant(v enums.TaxVariant) error {
	if d.Kind != enums.DraftKindSale {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s drafts have no tax variant", d.Kind)
	}
	if !v.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid tax variant %q", v)
	}
	d.TaxVariant = v
	return nil
}

// Reset empties the draft and restores its defaults. The id changes so a
// stale checkout cannot resubmit it.
func (d *Draft) Reset(defaults Defaults) {
	d.ID = uuid.New()
	d.Customer = nil
	d.Lines = []Line{}
	d.Adjustments = pricing.Adjustments{}
	d.Invoice = ""
	d.EditingID = ""
	d.applyDefaults(defaults)
}

// Variant resolves the sale pipeline configuration. Rental drafts have none.
func (d *Draft) Variant() (pricing.Variant, error) {
	if d.Kind == enums.DraftKindRental {
		return pricing.Variant{}, nil
	}
	v, err := pricing.VariantFor(d.Kind, d.TaxVariant)
	if err != nil {
		return pricing.Variant{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid draft variant")
	}
	return v, nil
}

// PricingLines projects the lines onto the pricing view.
func (d *Draft) PricingLines() []pricing.Line {
	out := make([]pricing.Line, 0, len(d.Lines))
	for _, l := range d.Lines {
		out = append(out, pricing.Line{
			UnitPrice: l.UnitPrice,
			RentRate:  l.RentRate,
			Qty:       l.Qty,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
		})
	}
	return out
}

// GuardState exposes the draft to the adjustment guard. Corrections write
// through to d.Adjustments.
func (d *Draft) GuardState() (adjustments.State, error) {
	v, err := d.Variant()
	if err != nil {
		return adjustments.State{}, err
	}
	return adjustments.State{
		Kind:        d.Kind,
		Variant:     v,
		Lines:       d.PricingLines(),
		Adjustments: &d.Adjustments,
	}, nil
}

// Totals is the computed snapshot for whichever pipeline the draft feeds.
type Totals struct {
	Sale   *pricing.Totals       `json:"sale,omitempty"`
	Rental *pricing.RentalTotals `json:"rental,omitempty"`
}

// Compute prices the draft.
func (d *Draft) Compute() (Totals, error) {
	if d.Kind == enums.DraftKindRental {
		rt := pricing.ComputeRental(d.PricingLines(), d.Adjustments)
		return Totals{Rental: &rt}, nil
	}
	v, err := d.Variant()
	if err != nil {
		return Totals{}, err
	}
	st := pricing.Compute(v, d.PricingLines(), d.Adjustments)
	return Totals{Sale: &st}, nil
}

func (d *Draft) lineIndex(lineID uuid.UUID) (int, error) {
	for i := range d.Lines {
		if d.Lines[i].ID == lineID {
			return i, nil
		}
	}
	return -1, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
		WithDetails(map[string]any{"line_id": lineID.String()})
}

func (d *Draft) removeAt(idx int) {
	d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
}
