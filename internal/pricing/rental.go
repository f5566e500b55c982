package pricing

import (
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// RentalLine is the priced view of one rental line.
type RentalLine struct {
	Months int             `json:"months"`
	Amount decimal.Decimal `json:"amount"`
	Priced bool            `json:"priced"`
}

// RentalTotals is the rental pipeline snapshot.
type RentalTotals struct {
	Lines       []RentalLine    `json:"lines"`
	TotalRent   decimal.Decimal `json:"total_rent"`
	DownPayment decimal.Decimal `json:"down_payment"`
	Payable     decimal.Decimal `json:"payable"`
}

// MonthsBetween bills partial trailing months as a full month. It returns 0
// when either date is unset and at least 1 otherwise.
func MonthsBetween(start, end types.Date) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	months := (end.Year*12 + int(end.Month)) - (start.Year*12 + int(start.Month))
	if end.Day > start.Day {
		months++
	}
	if months < 1 {
		return 1
	}
	return months
}

// ComputeRental prices each line as rate * months * qty. Lines missing a date
// or a rate contribute zero.
func ComputeRental(lines []Line, adj Adjustments) RentalTotals {
	out := RentalTotals{Lines: make([]RentalLine, 0, len(lines))}
	total := decimal.Zero
	for _, line := range lines {
		priced := RentalLine{Months: MonthsBetween(line.StartDate, line.EndDate), Amount: decimal.Zero}
		if priced.Months > 0 && !line.RentRate.IsZero() && line.Qty > 0 {
			priced.Amount = line.RentRate.
				Mul(decimal.NewFromInt(int64(priced.Months))).
				Mul(decimal.NewFromInt(int64(line.Qty)))
			priced.Priced = true
			total = total.Add(priced.Amount)
		}
		out.Lines = append(out.Lines, priced)
	}
	out.TotalRent = total
	out.DownPayment = adj.DownPayment.Safe()
	out.Payable = NonNegative(total.Sub(out.DownPayment))
	return out
}
