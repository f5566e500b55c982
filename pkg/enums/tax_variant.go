package enums

import "fmt"

// TaxVariant selects how tax is applied by the sale pipeline.
type TaxVariant string

const (
	TaxVariantWithholding TaxVariant = "pph"
	TaxVariantValueAdded  TaxVariant = "ppn"
)

var validTaxVariants = []TaxVariant{
	TaxVariantWithholding,
	TaxVariantValueAdded,
}

// String implements fmt.Stringer.
func (t TaxVariant) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaxVariant.
func (t TaxVariant) IsValid() bool {
	for _, candidate := range validTaxVariants {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaxVariant converts raw input into a TaxVariant.
func ParseTaxVariant(value string) (TaxVariant, error) {
	for _, candidate := range validTaxVariants {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax variant %q", value)
}
