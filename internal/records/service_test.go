package records

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/notify"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const transactionJSON = `{
  "uuid": "trx-1",
  "invoice": "TRX-20240115-0001",
  "status": "proses",
  "customer": {"uuid": "cust-1", "name_perusahaan": "PT Sinar", "address": "Jl. Merdeka 1"},
  "ppn": 11,
  "nego": 0,
  "dp": "50000",
  "transaction_details": [
    {"id": 7, "qty": 2, "price": "100000", "product": {"uuid": "p-1", "title": "Genset", "image": "genset.png"}}
  ]
}`

const rentalJSON = `{
  "uuid": "rnt-1",
  "invoice": "RNT-20240115-0001",
  "status": "berlangsung",
  "dp": 0,
  "customer": {"uuid": "cust-2", "name_perusahaan": "CV Abadi"},
  "details": [
    {"id": "d-1", "qty": 1, "rent_price": 1000000, "start_date": "2024-01-15T00:00:00.000Z", "end_date": "2024-03-20", "product": {"uuid": "p-2", "title": "Scaffolding"}}
  ]
}`

type stubRepo struct {
	trx          *Transaction
	rental       *Rental
	err          error
	statusCalls  []string
	nextInvoices map[enums.DraftKind]string
}

func (s *stubRepo) Transaction(context.Context, string) (*Transaction, error) { return s.trx, s.err }
func (s *stubRepo) Rental(context.Context, string) (*Rental, error)           { return s.rental, s.err }

func (s *stubRepo) UpdateTransactionStatus(_ context.Context, id string, status enums.TransactionStatus) error {
	s.statusCalls = append(s.statusCalls, id+"="+status.String())
	return nil
}

func (s *stubRepo) UpdateRentalStatus(_ context.Context, id string, status enums.RentalStatus) error {
	s.statusCalls = append(s.statusCalls, id+"="+status.String())
	return nil
}

func (s *stubRepo) NextInvoice(_ context.Context, kind enums.DraftKind) (string, error) {
	return s.nextInvoices[kind], nil
}

type stubDrafts struct {
	cart.Service
	replaced *cart.Draft
}

func (s *stubDrafts) Replace(_ context.Context, d *cart.Draft) (*cart.View, error) {
	s.replaced = d
	return &cart.View{Draft: d}, nil
}

func mustDecode[T any](t *testing.T, raw string) *T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &out
}

func TestLoadTransactionBuildsEditingDraft(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{trx: mustDecode[Transaction](t, transactionJSON)}
	drafts := &stubDrafts{}
	svc, err := NewService(repo, drafts, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	view, err := svc.LoadTransaction(context.Background(), "till-1", "trx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := view.Draft
	if d.EditingID != "trx-1" || d.Invoice != "TRX-20240115-0001" || d.Session != "till-1" {
		t.Fatalf("unexpected draft header %+v", d)
	}
	if d.TaxVariant != enums.TaxVariantValueAdded {
		t.Fatalf("expected ppn variant, got %q", d.TaxVariant)
	}
	if d.Customer == nil || d.Customer.Name != "PT Sinar" {
		t.Fatalf("unexpected customer %+v", d.Customer)
	}
	if d.Adjustments.Discount.IsSet() {
		t.Fatalf("stored zero nego should load as unset")
	}
	if !d.Adjustments.DownPayment.Safe().Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("unexpected dp %s", d.Adjustments.DownPayment)
	}
	if len(d.Lines) != 1 || d.Lines[0].DetailID != "7" || d.Lines[0].ProductID != "p-1" || d.Lines[0].Qty != 2 {
		t.Fatalf("unexpected lines %+v", d.Lines)
	}
	if drafts.replaced != d {
		t.Fatalf("draft was not handed to the cart service")
	}
}

func TestLoadRentalFormatsDates(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rental: mustDecode[Rental](t, rentalJSON)}
	svc, _ := NewService(repo, &stubDrafts{}, nil)

	view, err := svc.LoadRental(context.Background(), "till-1", "rnt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := view.Draft
	if d.Kind != enums.DraftKindRental || d.Status != "berlangsung" {
		t.Fatalf("unexpected draft %+v", d)
	}
	if d.Adjustments.DownPayment.IsSet() {
		t.Fatalf("stored zero dp should load as unset")
	}
	line := d.Lines[0]
	if line.StartDate.String() != "2024-01-15" || line.EndDate.String() != "2024-03-20" {
		t.Fatalf("unexpected dates %s %s", line.StartDate, line.EndDate)
	}
	if !line.RentRate.Equal(decimal.NewFromInt(1000000)) {
		t.Fatalf("unexpected rent rate %s", line.RentRate)
	}
}

func TestLoadFailureRaisesBlockingNotification(t *testing.T) {
	t.Parallel()

	rec := &notify.Recorder{}
	repo := &stubRepo{err: errors.New("status 500")}
	svc, _ := NewService(repo, &stubDrafts{}, rec)

	_, err := svc.LoadTransaction(context.Background(), "till-1", "trx-404")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound || pkgerrors.As(err).Message() != "transaction not found" {
		t.Fatalf("expected not found, got %v", err)
	}
	notes := rec.Drain()
	if len(notes) != 1 || notes[0].Message != "Transaksi tidak ditemukan" || notes[0].AutoDismissMs != 0 {
		t.Fatalf("expected blocking error notification, got %+v", notes)
	}

	_, err = svc.LoadRental(context.Background(), "till-1", "rnt-404")
	if pkgerrors.As(err).Message() != "rental not found" {
		t.Fatalf("expected rental not found, got %v", err)
	}
}

func TestLoadKeepsUnauthorized(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")}
	svc, _ := NewService(repo, &stubDrafts{}, nil)

	_, err := svc.LoadRental(context.Background(), "till-1", "rnt-1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRepairTransactionLoadsRepairDraft(t *testing.T) {
	t.Parallel()

	trx := mustDecode[Transaction](t, `{"type":"repair","subtotal":40000,"extra":null,"pph":2,"dp":5000,"status":"proses"}`)
	d := TransactionDraft("till-1", "trx-9", trx)
	if d.Kind != enums.DraftKindRepair || d.TaxVariant != "" {
		t.Fatalf("expected repair draft, got %+v", d)
	}
	if !d.Adjustments.RepairCost.Safe().Equal(decimal.NewFromInt(40000)) || d.Adjustments.RepairExtra.IsSet() {
		t.Fatalf("unexpected repair adjustments %+v", d.Adjustments)
	}
}

func TestStatusUpdatesValidateEnums(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, _ := NewService(repo, &stubDrafts{}, nil)

	if err := svc.SetTransactionStatus(context.Background(), "trx-1", "selesai"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.SetTransactionStatus(context.Background(), "trx-1", "berlangsung"); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("berlangsung is rental-only, got %v", err)
	}
	if err := svc.SetRentalStatus(context.Background(), "rnt-1", "berlangsung"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1] != "rnt-1=berlangsung" {
		t.Fatalf("unexpected status calls %v", repo.statusCalls)
	}
}

func TestNextInvoiceValidatesKind(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{nextInvoices: map[enums.DraftKind]string{enums.DraftKindRental: "RNT-20240115-0003"}}
	svc, _ := NewService(repo, &stubDrafts{}, nil)

	inv, err := svc.NextInvoice(context.Background(), enums.DraftKindRental)
	if err != nil || inv != "RNT-20240115-0003" {
		t.Fatalf("unexpected invoice %q err=%v", inv, err)
	}
	if _, err := svc.NextInvoice(context.Background(), "lease"); err == nil {
		t.Fatalf("expected invalid kind error")
	}
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	t.Parallel()

	var ids []ID
	if err := json.Unmarshal([]byte(`[12, "ab-1", null]`), &ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ids[0] != "12" || ids[1] != "ab-1" || ids[2] != "" {
		t.Fatalf("unexpected ids %v", ids)
	}
}
