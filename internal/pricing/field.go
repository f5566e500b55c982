package pricing

import "fmt"

// Field names an adjustment input. Values match the request and payload keys.
type Field string

const (
	FieldExtra       Field = "extra"
	FieldWithholding Field = "pph"
	FieldValueAdded  Field = "ppn"
	FieldDiscount    Field = "nego"
	FieldDownPayment Field = "dp"
	FieldRepairCost  Field = "repair_cost"
	FieldRepairExtra Field = "repair_extra"
)

var validFields = []Field{
	FieldExtra,
	FieldWithholding,
	FieldValueAdded,
	FieldDiscount,
	FieldDownPayment,
	FieldRepairCost,
	FieldRepairExtra,
}

func (f Field) String() string {
	return string(f)
}

func (f Field) IsValid() bool {
	for _, candidate := range validFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsPercent reports whether the field is bounded to [0, 100].
func (f Field) IsPercent() bool {
	return f == FieldWithholding || f == FieldValueAdded
}

func ParseField(value string) (Field, error) {
	for _, candidate := range validFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment field %q", value)
}

// Adjustments holds every user-entered adjustment for a draft.
type Adjustments struct {
	Extra              Input `json:"extra"`
	WithholdingPercent Input `json:"pph"`
	ValueAddedPercent  Input `json:"ppn"`
	Discount           Input `json:"nego"`
	DownPayment        Input `json:"dp"`
	RepairCost         Input `json:"repair_cost"`
	RepairExtra        Input `json:"repair_extra"`
}

// Get returns the current input for f.
func (a Adjustments) Get(f Field) Input {
	switch f {
	case FieldExtra:
		return a.Extra
	case FieldWithholding:
		return a.WithholdingPercent
	case FieldValueAdded:
		return a.ValueAddedPercent
	case FieldDiscount:
		return a.Discount
	case FieldDownPayment:
		return a.DownPayment
	case FieldRepairCost:
		return a.RepairCost
	case FieldRepairExtra:
		return a.RepairExtra
	default:
		return Unset()
	}
}

// Set overwrites the input for f. Unknown fields are ignored.
func (a *Adjustments) Set(f Field, in Input) {
	switch f {
	case FieldExtra:
		a.Extra = in
	case FieldWithholding:
		a.WithholdingPercent = in
	case FieldValueAdded:
		a.ValueAddedPercent = in
	case FieldDiscount:
		a.Discount = in
	case FieldDownPayment:
		a.DownPayment = in
	case FieldRepairCost:
		a.RepairCost = in
	case FieldRepairExtra:
		a.RepairExtra = in
	}
}
