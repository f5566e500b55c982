package enums

import "fmt"

// CheckoutState is a step in the checkout state machine.
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "idle"
	CheckoutStateValidating CheckoutState = "validating"
	CheckoutStateConfirming CheckoutState = "confirming"
	CheckoutStateSubmitting CheckoutState = "submitting"
	CheckoutStateSucceeded  CheckoutState = "succeeded"
	CheckoutStateFailed     CheckoutState = "failed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateValidating,
	CheckoutStateConfirming,
	CheckoutStateSubmitting,
	CheckoutStateSucceeded,
	CheckoutStateFailed,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
