package checkout

import (
	"fmt"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"go.uber.org/multierr"
)

// Rejection is a validation failure. The run stays Idle and the draft is
// left untouched for correction.
type Rejection struct {
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

func (r *Rejection) Error() string {
	return r.Title + ": " + r.Message
}

func reject(title, message string) *Rejection {
	return &Rejection{Title: title, Message: message}
}

// quote is the point-in-time pricing a run validates, summarizes and submits.
type quote struct {
	variant pricing.Variant
	sale    pricing.Totals
	rental  pricing.RentalTotals
}

func verb(op enums.CheckoutOperation) string {
	if op == enums.CheckoutOperationUpdate {
		return "update"
	}
	return "checkout"
}

// validate is the authoritative pass run at submission time. It does not
// depend on the adjustment guard having run.
func validate(d *cart.Draft, op enums.CheckoutOperation) (quote, *Rejection) {
	switch d.Kind {
	case enums.DraftKindRental:
		return validateRental(d)
	case enums.DraftKindRepair:
		return validateRepair(d)
	default:
		return validateSale(d, op)
	}
}

func validateSale(d *cart.Draft, op enums.CheckoutOperation) (quote, *Rejection) {
	v, err := d.Variant()
	if err != nil {
		return quote{}, reject("Varian pajak tidak valid", err.Error())
	}
	q := quote{variant: v, sale: pricing.Compute(v, d.PricingLines(), d.Adjustments)}

	if len(d.Lines) == 0 {
		return q, reject("Keranjang masih kosong", fmt.Sprintf("Tambahkan produk sebelum %s!", verb(op)))
	}
	if d.Customer == nil {
		return q, reject("Customer belum dipilih", fmt.Sprintf("Silakan pilih customer sebelum %s!", verb(op)))
	}
	if v.Bound.Exceeds(q.sale.Discount, q.sale.Payable) {
		return q, reject("Nego tidak valid", "Harga nego tidak boleh melebihi total")
	}
	if v.Bound.Exceeds(q.sale.DownPayment, q.sale.Payable) {
		return q, reject("DP tidak valid", "DP tidak boleh melebihi total bayar")
	}
	return q, nil
}

func validateRepair(d *cart.Draft) (quote, *Rejection) {
	v := pricing.Repair
	q := quote{variant: v, sale: pricing.Compute(v, nil, d.Adjustments)}

	if d.Customer == nil {
		return q, reject("Customer belum dipilih", "Silakan pilih customer sebelum checkout!")
	}
	if !q.sale.Subtotal.IsPositive() {
		return q, reject("Biaya servis belum diisi", "Masukkan biaya servis sebelum checkout!")
	}
	if v.Bound.Exceeds(q.sale.DownPayment, q.sale.Payable) {
		return q, reject("DP tidak valid", "DP harus lebih kecil dari total bayar")
	}
	return q, nil
}

func validateRental(d *cart.Draft) (quote, *Rejection) {
	q := quote{rental: pricing.ComputeRental(d.PricingLines(), d.Adjustments)}

	if d.Customer == nil {
		return q, reject("Customer belum dipilih", "Silakan pilih customer terlebih dahulu")
	}
	if len(d.Lines) == 0 {
		return q, reject("Keranjang kosong", "Tambahkan produk terlebih dahulu")
	}

	var missing, reversed error
	for _, l := range d.Lines {
		switch {
		case l.StartDate.IsZero() || l.EndDate.IsZero():
			missing = multierr.Append(missing, fmt.Errorf("tanggal sewa %s belum lengkap", l.Name))
		case l.EndDate.Before(l.StartDate):
			reversed = multierr.Append(reversed, fmt.Errorf(
				"Tanggal selesai tidak boleh lebih awal dari tanggal mulai untuk %s", l.Name))
		}
	}
	if missing != nil {
		r := reject("Tanggal belum lengkap", "Tanggal sewa wajib diisi di setiap item!")
		r.Violations = messages(missing)
		return q, r
	}
	if reversed != nil {
		errs := multierr.Errors(reversed)
		r := reject("Tanggal Tidak Valid", errs[0].Error())
		r.Violations = messages(reversed)
		return q, r
	}

	if pricing.BoundInclusive.Exceeds(q.rental.DownPayment, q.rental.TotalRent) {
		return q, reject("DP tidak valid", "DP tidak boleh melebihi total sewa")
	}
	return q, nil
}

func messages(err error) []string {
	errs := multierr.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}
