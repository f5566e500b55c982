package pricing

import (
	"fmt"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// TaxMode says whether the tax nominal is withheld from or levied on the base.
type TaxMode int

const (
	TaxWithheld TaxMode = iota
	TaxLevied
)

// Source picks where the subtotal comes from.
type Source int

const (
	SourceLines Source = iota
	SourceRepairCost
)

// Bound is the legal-range semantics for discount and down payment amounts.
type Bound int

const (
	// BoundInclusive allows a value equal to its total.
	BoundInclusive Bound = iota
	// BoundStrict requires a value strictly below a positive total.
	BoundStrict
)

// Limit returns the largest legal value against total. ok is false when the
// bound does not restrict the value at all.
func (b Bound) Limit(total decimal.Decimal) (limit decimal.Decimal, ok bool) {
	switch b {
	case BoundStrict:
		if !total.IsPositive() {
			return decimal.Zero, false
		}
		return NonNegative(total.Sub(decimal.NewFromInt(1))), true
	default:
		return NonNegative(total), true
	}
}

// Exceeds reports whether value is beyond the legal limit for total.
func (b Bound) Exceeds(value, total decimal.Decimal) bool {
	limit, ok := b.Limit(total)
	return ok && value.GreaterThan(limit)
}

func (b Bound) String() string {
	if b == BoundStrict {
		return "strict"
	}
	return "inclusive"
}

// Variant describes one configuration of the sale pipeline.
type Variant struct {
	Name       string
	Source     Source
	ExtraField Field
	TaxField   Field
	Tax        TaxMode
	Discount   bool
	Bound      Bound
	// DownPaymentReducesBalance is false when the down payment is only bookkeeping.
	DownPaymentReducesBalance bool
}

var (
	// Withholding adds an extra fee then withholds PPH from the post-extra amount.
	Withholding = Variant{
		Name:                      "pph",
		Source:                    SourceLines,
		ExtraField:                FieldExtra,
		TaxField:                  FieldWithholding,
		Tax:                       TaxWithheld,
		Discount:                  true,
		Bound:                     BoundInclusive,
		DownPaymentReducesBalance: true,
	}

	// ValueAdded levies PPN on the subtotal and has no extra fee stage.
	ValueAdded = Variant{
		Name:                      "ppn",
		Source:                    SourceLines,
		TaxField:                  FieldValueAdded,
		Tax:                       TaxLevied,
		Discount:                  true,
		Bound:                     BoundStrict,
		DownPaymentReducesBalance: true,
	}

	// Repair prices a single repair cost with its own extra fee and PPH.
	Repair = Variant{
		Name:       "repair",
		Source:     SourceRepairCost,
		ExtraField: FieldRepairExtra,
		TaxField:   FieldWithholding,
		Tax:        TaxWithheld,
		Bound:      BoundStrict,
	}
)

// HasExtra reports whether the variant has an extra fee stage.
func (v Variant) HasExtra() bool {
	return v.ExtraField != ""
}

// VariantFor resolves the pipeline variant for a sale or repair draft.
func VariantFor(kind enums.DraftKind, tax enums.TaxVariant) (Variant, error) {
	switch kind {
	case enums.DraftKindRepair:
		return Repair, nil
	case enums.DraftKindSale:
		switch tax {
		case enums.TaxVariantWithholding, "":
			return Withholding, nil
		case enums.TaxVariantValueAdded:
			return ValueAdded, nil
		}
		return Variant{}, fmt.Errorf("unsupported tax variant %q", tax)
	}
	return Variant{}, fmt.Errorf("draft kind %q has no sale pipeline variant", kind)
}
