package cart

import (
	"testing"
	"time"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testDefaults = Defaults{SaleStatus: "proses", RentalStatus: "proses", SaleVariant: enums.TaxVariantWithholding}

func TestAddProductMergesByProduct(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	p := Product{ID: "p-1", Name: "Kursi", Price: decimal.NewFromInt(50000)}

	first, err := d.AddProduct(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstID := first.ID
	if _, err := d.AddProduct(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.AddProduct(Product{ID: "p-2", Name: "Meja", Price: decimal.NewFromInt(75000)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(d.Lines))
	}
	if d.Lines[0].ID != firstID || d.Lines[0].Qty != 2 {
		t.Fatalf("expected merged first line with qty 2, got %+v", d.Lines[0])
	}
	if d.Lines[1].ID == uuid.Nil {
		t.Fatalf("new line should get an id")
	}
}

func TestAddProductRequiresID(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	_, err := d.AddProduct(Product{Name: "Kursi"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangeQtyRemovesLineBelowOne(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	line, _ := d.AddProduct(Product{ID: "p-1", Price: decimal.NewFromInt(1000)})
	id := line.ID

	if err := d.ChangeQty(id, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", d.Lines[0].Qty)
	}
	if err := d.ChangeQty(id, -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", d.Lines)
	}
	if err := d.ChangeQty(id, 1); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for removed line, got %v", err)
	}
}

func TestSetDatesRejectsEndBeforeStart(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindRental, testDefaults)
	line, _ := d.AddProduct(Product{ID: "p-1", RentPrice: decimal.NewFromInt(1000000)})
	id := line.ID

	start := types.NewDate(2024, time.March, 10)
	end := types.NewDate(2024, time.March, 1)
	if err := d.SetDates(id, start, end); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := d.SetDates(id, start, types.Date{}); err != nil {
		t.Fatalf("a single date should be accepted, got %v", err)
	}
	if d.Lines[0].StartDate != start || !d.Lines[0].EndDate.IsZero() {
		t.Fatalf("unexpected dates %+v", d.Lines[0])
	}
}

func TestSetDatesOnlyForRentals(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	line, _ := d.AddProduct(Product{ID: "p-1"})
	if err := d.SetDates(line.ID, types.NewDate(2024, 1, 1), types.NewDate(2024, 2, 1)); err == nil {
		t.Fatalf("expected error for sale draft")
	}
}

func TestTaxVariantOnlyForSales(t *testing.T) {
	t.Parallel()

	sale := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	if sale.TaxVariant != enums.TaxVariantWithholding {
		t.Fatalf("expected default pph, got %q", sale.TaxVariant)
	}
	if err := sale.SetTaxVariant(enums.TaxVariantValueAdded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := sale.Variant(); v.Name != "ppn" {
		t.Fatalf("expected ppn variant, got %q", v.Name)
	}

	repair := NewDraft("till-1", enums.DraftKindRepair, testDefaults)
	if err := repair.SetTaxVariant(enums.TaxVariantValueAdded); err == nil {
		t.Fatalf("expected error for repair draft")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindSale, testDefaults)
	oldID := d.ID
	_, _ = d.AddProduct(Product{ID: "p-1"})
	_ = d.SetCustomer(Customer{ID: "c-1", Name: "PT Maju"})
	_ = d.SetTaxVariant(enums.TaxVariantValueAdded)
	d.EditingID = "trx-9"
	d.Status = "selesai"

	d.Reset(testDefaults)

	if d.ID == oldID {
		t.Fatalf("reset should rotate the draft id")
	}
	if len(d.Lines) != 0 || d.Customer != nil || d.IsEditing() {
		t.Fatalf("reset left state behind: %+v", d)
	}
	if d.Status != "proses" || d.TaxVariant != enums.TaxVariantWithholding {
		t.Fatalf("defaults not restored: status=%q variant=%q", d.Status, d.TaxVariant)
	}
}

func TestComputeRentalDraft(t *testing.T) {
	t.Parallel()

	d := NewDraft("till-1", enums.DraftKindRental, testDefaults)
	line, _ := d.AddProduct(Product{ID: "p-1", RentPrice: decimal.NewFromInt(1000000)})
	_ = d.SetDates(line.ID, types.NewDate(2024, time.January, 15), types.NewDate(2024, time.April, 20))

	totals, err := d.Compute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Sale != nil || totals.Rental == nil {
		t.Fatalf("expected rental totals only, got %+v", totals)
	}
	if !totals.Rental.TotalRent.Equal(decimal.NewFromInt(4000000)) {
		t.Fatalf("expected 4000000, got %s", totals.Rental.TotalRent)
	}
}
