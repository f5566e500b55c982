package enums

import "fmt"

// TransactionStatus is the lifecycle tag carried by a sale or repair transaction.
type TransactionStatus string

const (
	TransactionStatusProses  TransactionStatus = "proses"
	TransactionStatusSelesai TransactionStatus = "selesai"
	TransactionStatusBatal   TransactionStatus = "batal"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusProses,
	TransactionStatusSelesai,
	TransactionStatusBatal,
}

// String implements fmt.Stringer.
func (t TransactionStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionStatus.
func (t TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
