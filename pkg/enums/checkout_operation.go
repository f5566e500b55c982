package enums

import "fmt"

// CheckoutOperation distinguishes creating a record from updating one loaded for editing.
type CheckoutOperation string

const (
	CheckoutOperationCreate CheckoutOperation = "create"
	CheckoutOperationUpdate CheckoutOperation = "update"
)

var validCheckoutOperations = []CheckoutOperation{
	CheckoutOperationCreate,
	CheckoutOperationUpdate,
}

// String implements fmt.Stringer.
func (c CheckoutOperation) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutOperation.
func (c CheckoutOperation) IsValid() bool {
	for _, candidate := range validCheckoutOperations {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutOperation converts raw input into a CheckoutOperation.
func ParseCheckoutOperation(value string) (CheckoutOperation, error) {
	for _, candidate := range validCheckoutOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout operation %q", value)
}
