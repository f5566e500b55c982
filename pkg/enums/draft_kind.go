package enums

import "fmt"

// DraftKind selects which calculation pipeline a draft cart feeds.
type DraftKind string

const (
	DraftKindSale   DraftKind = "sale"
	DraftKindRental DraftKind = "rental"
	DraftKindRepair DraftKind = "repair"
)

var validDraftKinds = []DraftKind{
	DraftKindSale,
	DraftKindRental,
	DraftKindRepair,
}

// String implements fmt.Stringer.
func (d DraftKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DraftKind.
func (d DraftKind) IsValid() bool {
	for _, candidate := range validDraftKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDraftKind converts raw input into a DraftKind.
func ParseDraftKind(value string) (DraftKind, error) {
	for _, candidate := range validDraftKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft kind %q", value)
}
