package enums

import "fmt"

// RentalStatus is the lifecycle tag carried by a rental record.
type RentalStatus string

const (
	RentalStatusProses      RentalStatus = "proses"
	RentalStatusBerlangsung RentalStatus = "berlangsung"
	RentalStatusSelesai     RentalStatus = "selesai"
	RentalStatusBatal       RentalStatus = "batal"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusProses,
	RentalStatusBerlangsung,
	RentalStatusSelesai,
	RentalStatusBatal,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RentalStatus.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}
