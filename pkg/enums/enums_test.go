package enums

import "testing"

func TestParseRoundTrips(t *testing.T) {
	if v, err := ParseTaxVariant("ppn"); err != nil || v != TaxVariantValueAdded {
		t.Fatalf("expected ppn variant, got %v %v", v, err)
	}
	if v, err := ParseRentalStatus("berlangsung"); err != nil || v != RentalStatusBerlangsung {
		t.Fatalf("expected berlangsung, got %v %v", v, err)
	}
	if _, err := ParseDraftKind("lease"); err == nil {
		t.Fatalf("expected unknown draft kind to fail")
	}
	if _, err := ParseTransactionStatus("berlangsung"); err == nil {
		t.Fatalf("berlangsung is a rental-only status")
	}
}

func TestIsValid(t *testing.T) {
	if !CheckoutStateSubmitting.IsValid() {
		t.Fatalf("submitting should be valid")
	}
	if CheckoutState("paused").IsValid() {
		t.Fatalf("paused should be invalid")
	}
	if NotificationSeverityWarning.String() != "warning" {
		t.Fatalf("unexpected severity string %q", NotificationSeverityWarning.String())
	}
}
