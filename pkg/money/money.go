// Package money renders amounts the way Indonesian cashiers read them.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const currencyPrefix = "Rp "

var printer = message.NewPrinter(language.Indonesian)

// FormatRupiah formats an amount with id-ID digit grouping, e.g. "Rp 1.000.000".
func FormatRupiah(amount decimal.Decimal) string {
	return currencyPrefix + FormatNumber(amount)
}

// FormatNumber formats without the currency prefix, keeping at most two fraction digits.
func FormatNumber(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// FormatPercent renders a percent value such as "2,5%".
func FormatPercent(p decimal.Decimal) string {
	return FormatNumber(p) + "%"
}
