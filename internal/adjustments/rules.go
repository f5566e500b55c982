package adjustments

import (
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Check is the kind of range a rule enforces.
type Check int

const (
	// CheckPercent keeps the value in [0, 100].
	CheckPercent Check = iota
	// CheckAmount keeps the value in [0, bound(total)].
	CheckAmount
	// CheckNonNegative only floors the value at zero.
	CheckNonNegative
)

// Stage names the derived total an amount rule is bounded by.
type Stage int

const (
	StagePreDiscount Stage = iota
	StagePayable
	StageTotalRent
)

// Rule clamps one adjustment field. Rules run in pipeline order so a clamp on
// an early stage is visible to the rules after it.
type Rule struct {
	Field   pricing.Field
	Check   Check
	Bound   pricing.Bound
	Against Stage
	Title   string
	Message string
}

// State is the slice of a draft the guard reads and corrects.
type State struct {
	Kind        enums.DraftKind
	Variant     pricing.Variant
	Lines       []pricing.Line
	Adjustments *pricing.Adjustments
}

func (s State) total(stage Stage) decimal.Decimal {
	if s.Kind == enums.DraftKindRental {
		return pricing.ComputeRental(s.Lines, *s.Adjustments).TotalRent
	}
	totals := pricing.Compute(s.Variant, s.Lines, *s.Adjustments)
	switch stage {
	case StagePreDiscount:
		return totals.PreDiscount
	default:
		return totals.Payable
	}
}

func percentRule(field pricing.Field, label string) Rule {
	return Rule{
		Field:   field,
		Check:   CheckPercent,
		Title:   label + " tidak valid",
		Message: label + " tidak boleh melebihi 100%",
	}
}

// RulesFor returns the ordered rule list for a pipeline.
func RulesFor(kind enums.DraftKind, variant pricing.Variant) []Rule {
	switch kind {
	case enums.DraftKindRental:
		return []Rule{{
			Field:   pricing.FieldDownPayment,
			Check:   CheckAmount,
			Bound:   pricing.BoundInclusive,
			Against: StageTotalRent,
			Title:   "DP tidak valid",
			Message: "DP tidak boleh melebihi total sewa",
		}}
	case enums.DraftKindRepair:
		return []Rule{
			{Field: pricing.FieldRepairCost, Check: CheckNonNegative},
			{Field: pricing.FieldRepairExtra, Check: CheckNonNegative},
			percentRule(pricing.FieldWithholding, "PPH"),
			{
				Field:   pricing.FieldDownPayment,
				Check:   CheckAmount,
				Bound:   pricing.BoundStrict,
				Against: StagePayable,
				Title:   "DP tidak valid",
				Message: "DP harus lebih kecil dari total biaya perbaikan",
			},
		}
	}

	rules := make([]Rule, 0, 4)
	if variant.HasExtra() {
		rules = append(rules, Rule{Field: variant.ExtraField, Check: CheckNonNegative})
	}
	if variant.TaxField == pricing.FieldValueAdded {
		rules = append(rules, percentRule(pricing.FieldValueAdded, "PPN"))
	} else {
		rules = append(rules, percentRule(pricing.FieldWithholding, "PPH"))
	}

	discountMsg := "Harga nego tidak boleh melebihi total sebelum nego"
	dpMsg := "DP tidak boleh melebihi total bayar"
	if variant.Bound == pricing.BoundStrict {
		discountMsg = "Harga nego harus lebih kecil dari total sebelum nego"
		dpMsg = "DP harus lebih kecil dari total bayar"
	}
	if variant.Discount {
		rules = append(rules, Rule{
			Field:   pricing.FieldDiscount,
			Check:   CheckAmount,
			Bound:   variant.Bound,
			Against: StagePreDiscount,
			Title:   "Nego tidak valid",
			Message: discountMsg,
		})
	}
	return append(rules, Rule{
		Field:   pricing.FieldDownPayment,
		Check:   CheckAmount,
		Bound:   variant.Bound,
		Against: StagePayable,
		Title:   "DP tidak valid",
		Message: dpMsg,
	})
}

// correct returns the legal value for v and whether the correction warrants a warning.
func (r Rule) correct(v decimal.Decimal, st State) (decimal.Decimal, bool) {
	switch r.Check {
	case CheckPercent:
		if v.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.NewFromInt(100), true
		}
	case CheckAmount:
		total := st.total(r.Against)
		if r.Bound.Exceeds(v, total) {
			limit, _ := r.Bound.Limit(total)
			return limit, true
		}
	}
	if v.IsNegative() {
		return decimal.Zero, false
	}
	return v, false
}
