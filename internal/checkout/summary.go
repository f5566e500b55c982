package checkout

import (
	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/money"
)

// SummaryRow is one label/value line of the confirmation summary.
type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is what the cashier confirms before anything is submitted.
type Summary struct {
	Title        string       `json:"title"`
	ConfirmLabel string       `json:"confirm_label"`
	CancelLabel  string       `json:"cancel_label"`
	Rows         []SummaryRow `json:"rows"`
	Total        SummaryRow   `json:"total"`
}

func buildSummary(d *cart.Draft, op enums.CheckoutOperation, q quote) Summary {
	s := Summary{Title: "Konfirmasi Checkout", ConfirmLabel: "Ya, Checkout", CancelLabel: "Batal"}
	if d.Kind == enums.DraftKindRental {
		s.ConfirmLabel = "Ya, Proses"
	}
	if op == enums.CheckoutOperationUpdate {
		s.Title = "Konfirmasi Update"
		s.ConfirmLabel = "Ya, Update"
		s.Rows = append(s.Rows, SummaryRow{Label: "Invoice", Value: d.Invoice})
	}

	customer := "-"
	if d.Customer != nil && d.Customer.Name != "" {
		customer = d.Customer.Name
	}
	s.Rows = append(s.Rows, SummaryRow{Label: "Customer", Value: customer})

	if d.Kind == enums.DraftKindRental {
		rt := q.rental
		s.Rows = append(s.Rows,
			SummaryRow{Label: "Total Harga Sewa", Value: money.FormatRupiah(rt.TotalRent)},
			SummaryRow{Label: "DP", Value: money.FormatRupiah(rt.DownPayment)},
		)
		s.Total = SummaryRow{Label: "Sisa Bayar", Value: money.FormatRupiah(rt.Payable)}
		return s
	}

	t := q.sale
	subtotalLabel := "Subtotal"
	if d.Kind == enums.DraftKindRepair {
		subtotalLabel = "Biaya Servis"
	}
	s.Rows = append(s.Rows, SummaryRow{Label: subtotalLabel, Value: money.FormatRupiah(t.Subtotal)})
	if q.variant.HasExtra() {
		s.Rows = append(s.Rows,
			SummaryRow{Label: "Tambahan Biaya", Value: money.FormatRupiah(t.Extra)},
			SummaryRow{Label: "Total + Biaya", Value: money.FormatRupiah(t.PostExtra)},
		)
	}
	taxLabel := "PPH"
	if q.variant.TaxField == pricing.FieldValueAdded {
		taxLabel = "PPN"
	}
	s.Rows = append(s.Rows,
		SummaryRow{Label: taxLabel + " (%)", Value: money.FormatPercent(t.TaxPercent)},
		SummaryRow{Label: taxLabel + " Nominal", Value: money.FormatRupiah(t.TaxNominal)},
	)
	if q.variant.Discount {
		s.Rows = append(s.Rows, SummaryRow{Label: "Nego", Value: money.FormatRupiah(t.Discount)})
	}
	s.Rows = append(s.Rows, SummaryRow{Label: "DP", Value: money.FormatRupiah(t.DownPayment)})
	s.Total = SummaryRow{Label: "Total Dibayar", Value: money.FormatRupiah(t.Payable)}
	return s
}
