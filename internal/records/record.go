package records

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// ID accepts identifiers encoded as JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Customer is the stored customer reference.
type Customer struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name_perusahaan"`
	Address string `json:"address"`
}

// Product is the stored product reference of a detail row.
type Product struct {
	UUID  string `json:"uuid"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type TransactionDetail struct {
	ID      ID              `json:"id"`
	Qty     int             `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Product Product         `json:"product"`
}

// Transaction is a stored sale or repair.
type Transaction struct {
	UUID     string              `json:"uuid"`
	Invoice  string              `json:"invoice"`
	Status   string              `json:"status"`
	Type     string              `json:"type,omitempty"`
	Customer *Customer           `json:"customer"`
	Subtotal pricing.Input       `json:"subtotal"`
	Extra    pricing.Input       `json:"extra"`
	PPH      pricing.Input       `json:"pph"`
	PPN      pricing.Input       `json:"ppn"`
	Nego     pricing.Input       `json:"nego"`
	DP       pricing.Input       `json:"dp"`
	Total    pricing.Input       `json:"grand_total"`
	Details  []TransactionDetail `json:"transaction_details"`
}

type RentalDetail struct {
	ID        ID              `json:"id"`
	Qty       int             `json:"qty"`
	RentPrice decimal.Decimal `json:"rent_price"`
	StartDate types.Date      `json:"start_date"`
	EndDate   types.Date      `json:"end_date"`
	Product   Product         `json:"product"`
}

// Rental is a stored rental.
type Rental struct {
	UUID           string         `json:"uuid"`
	Invoice        string         `json:"invoice"`
	Status         string         `json:"status"`
	Customer       *Customer      `json:"customer"`
	DP             pricing.Input  `json:"dp"`
	TotalRentPrice pricing.Input  `json:"total_rent_price"`
	Details        []RentalDetail `json:"details"`
}
