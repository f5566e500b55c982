package pricing

import (
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Line is the pricing view of a cart line.
type Line struct {
	UnitPrice decimal.Decimal
	RentRate  decimal.Decimal
	Qty       int
	StartDate types.Date
	EndDate   types.Date
}

// Totals is a snapshot of every sale pipeline stage together with the
// coerced adjustment values that produced it.
type Totals struct {
	Variant      string          `json:"variant"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Extra        decimal.Decimal `json:"extra"`
	PostExtra    decimal.Decimal `json:"post_extra"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	TaxNominal   decimal.Decimal `json:"tax_nominal"`
	PreDiscount  decimal.Decimal `json:"pre_discount"`
	Discount     decimal.Decimal `json:"discount"`
	PostDiscount decimal.Decimal `json:"post_discount"`
	Payable      decimal.Decimal `json:"payable"`
	DownPayment  decimal.Decimal `json:"down_payment"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// Compute runs the pipeline stages in order. It never fails: every input is
// read through Input.Safe.
func Compute(v Variant, lines []Line, adj Adjustments) Totals {
	var subtotal decimal.Decimal
	switch v.Source {
	case SourceRepairCost:
		subtotal = adj.RepairCost.Safe()
	default:
		subtotal = Subtotal(lines)
	}

	extra := decimal.Zero
	if v.HasExtra() {
		extra = adj.Get(v.ExtraField).Safe()
	}
	postExtra := subtotal.Add(extra)

	percent := adj.Get(v.TaxField).Safe()
	taxNominal := Percent(postExtra, percent)

	var preDiscount decimal.Decimal
	if v.Tax == TaxLevied {
		preDiscount = postExtra.Add(taxNominal)
	} else {
		preDiscount = postExtra.Sub(taxNominal)
	}

	discount := decimal.Zero
	if v.Discount {
		discount = adj.Discount.Safe()
	}
	postDiscount := NonNegative(preDiscount.Sub(discount))
	payable := NonNegative(postDiscount)

	downPayment := adj.DownPayment.Safe()
	remaining := payable
	if v.DownPaymentReducesBalance {
		remaining = NonNegative(payable.Sub(downPayment))
	}

	return Totals{
		Variant:      v.Name,
		Subtotal:     subtotal,
		Extra:        extra,
		PostExtra:    postExtra,
		TaxPercent:   percent,
		TaxNominal:   taxNominal,
		PreDiscount:  preDiscount,
		Discount:     discount,
		PostDiscount: postDiscount,
		Payable:      payable,
		DownPayment:  downPayment,
		Remaining:    remaining,
	}
}

// Subtotal sums unit price times quantity over every line.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return total
}

// Percent returns base * p / 100.
func Percent(base, p decimal.Decimal) decimal.Decimal {
	return base.Mul(p).Shift(-2)
}

// NonNegative clamps negative amounts to zero. Fractions are kept.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
