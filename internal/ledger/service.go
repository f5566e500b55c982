// Package ledger stores confirmed checkouts in the local database when the
// service runs without the REST backend.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/rentpos-backend/internal/checkout"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/internal/records"
	"github.com/angelmondragon/rentpos-backend/pkg/db"
	"github.com/angelmondragon/rentpos-backend/pkg/db/models"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const invoiceAttempts = 3

// Service persists checkouts and serves them back for edit flows.
type Service interface {
	checkout.Submitter
	records.Repository
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx       txRunner
	repo     Repository
	invoices *Invoices
	logg     *logger.Logger
}

// NewService wires the ledger with its repository and invoice generator.
func NewService(tx txRunner, repo Repository, invoices *Invoices, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice generator required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{tx: tx, repo: repo, invoices: invoices, logg: logg}, nil
}

func (s *service) CreateTransaction(ctx context.Context, p checkout.SalePayload) (*checkout.Result, error) {
	kind := enums.DraftKindSale
	if p.Type == checkout.PayloadTypeRepair {
		kind = enums.DraftKindRepair
	}
	trx := transactionModel(uuid.New(), p)
	err := s.withInvoice(ctx, kind, p.Invoice, func(invoice string) error {
		trx.Invoice = invoice
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).CreateTransaction(ctx, trx)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithInvoice(ctx, trx.Invoice), "transaction stored")
	return &checkout.Result{ID: trx.ID.String(), Invoice: trx.Invoice}, nil
}

func (s *service) UpdateTransaction(ctx context.Context, id string, p checkout.SalePayload) (*checkout.Result, error) {
	trxID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var invoice string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindTransaction(ctx, trxID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
		}
		if existing == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		trx := transactionModel(trxID, p)
		trx.Invoice = existing.Invoice
		trx.CreatedAt = existing.CreatedAt
		invoice = trx.Invoice
		return repo.ReplaceTransaction(ctx, trx)
	})
	if err != nil {
		return nil, mapStoreError(err, "update transaction")
	}
	return &checkout.Result{ID: id, Invoice: invoice}, nil
}

func (s *service) CreateRental(ctx context.Context, p checkout.RentalPayload) (*checkout.Result, error) {
	rental := rentalModel(uuid.New(), p)
	err := s.withInvoice(ctx, enums.DraftKindRental, p.Invoice, func(invoice string) error {
		rental.Invoice = invoice
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).CreateRental(ctx, rental)
		})
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithInvoice(ctx, rental.Invoice), "rental stored")
	return &checkout.Result{ID: rental.ID.String(), Invoice: rental.Invoice}, nil
}

func (s *service) UpdateRental(ctx context.Context, id string, p checkout.RentalPayload) (*checkout.Result, error) {
	rentalID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var invoice string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindRental(ctx, rentalID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rental")
		}
		if existing == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
		}
		rental := rentalModel(rentalID, p)
		rental.Invoice = existing.Invoice
		rental.CreatedAt = existing.CreatedAt
		invoice = rental.Invoice
		return repo.ReplaceRental(ctx, rental)
	})
	if err != nil {
		return nil, mapStoreError(err, "update rental")
	}
	return &checkout.Result{ID: id, Invoice: invoice}, nil
}

// withInvoice runs store with the requested invoice, or with allocated ones
// until it stops colliding with stored records.
func (s *service) withInvoice(ctx context.Context, kind enums.DraftKind, requested string, store func(invoice string) error) error {
	if invoice := strings.TrimSpace(requested); invoice != "" {
		if err := store(invoice); err != nil {
			return mapStoreError(err, "store record")
		}
		return nil
	}

	invoice, err := s.invoices.Next(ctx, kind)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate invoice number")
	}
	for attempt := 0; ; attempt++ {
		err := store(invoice)
		if err == nil {
			return nil
		}
		if !db.IsUniqueViolation(err, "") || attempt+1 >= invoiceAttempts {
			return mapStoreError(err, "store record")
		}
		s.logg.Warn(s.logg.WithInvoice(ctx, invoice), "invoice number already used, renumbering")
		if invoice, err = s.invoices.fromCount(ctx, kind, int64(attempt)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate invoice number")
		}
	}
}

func (s *service) Transaction(ctx context.Context, id string) (*records.Transaction, error) {
	trxID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	trx, err := s.repo.FindTransaction(ctx, trxID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}
	if trx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return transactionRecord(trx), nil
}

func (s *service) Rental(ctx context.Context, id string) (*records.Rental, error) {
	rentalID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rental, err := s.repo.FindRental(ctx, rentalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load rental")
	}
	if rental == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
	}
	return rentalRecord(rental), nil
}

func (s *service) UpdateTransactionStatus(ctx context.Context, id string, status enums.TransactionStatus) error {
	trxID, err := parseID(id)
	if err != nil {
		return err
	}
	found, err := s.repo.UpdateTransactionStatus(ctx, trxID, status.String())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update transaction status")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return nil
}

func (s *service) UpdateRentalStatus(ctx context.Context, id string, status enums.RentalStatus) error {
	rentalID, err := parseID(id)
	if err != nil {
		return err
	}
	found, err := s.repo.UpdateRentalStatus(ctx, rentalID, status.String())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update rental status")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rental not found")
	}
	return nil
}

func (s *service) NextInvoice(ctx context.Context, kind enums.DraftKind) (string, error) {
	invoice, err := s.invoices.Peek(ctx, kind)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "preview invoice number")
	}
	return invoice, nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "unknown record id")
	}
	return parsed, nil
}

func mapStoreError(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "invoice number already used")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func transactionModel(id uuid.UUID, p checkout.SalePayload) *models.Transaction {
	trx := &models.Transaction{
		ID:                id,
		Type:              p.Type,
		CustomerID:        p.CustomerID,
		CustomerName:      p.CustomerName,
		Subtotal:          p.Subtotal,
		SubtotalPlusExtra: p.SubtotalPlusExtra,
		Extra:             p.Extra,
		PPH:               p.PPH,
		PPHNominal:        p.PPHNominal,
		PPN:               p.PPN,
		PPNNominal:        p.PPNNominal,
		Nego:              p.Nego,
		DP:                p.DP,
		GrandTotal:        p.GrandTotal,
		Status:            p.Status,
	}
	if trx.Type == "" {
		trx.Type = checkout.PayloadTypeSale
	}
	if p.TaxVariant != "" {
		variant := p.TaxVariant
		trx.TaxVariant = &variant
	}
	for _, d := range p.Details {
		trx.Details = append(trx.Details, models.TransactionDetail{
			ID:            uuid.New(),
			TransactionID: id,
			ProductID:     d.ProductID,
			ProductName:   d.ProductName,
			Qty:           d.Qty,
			Price:         d.Price,
		})
	}
	return trx
}

func rentalModel(id uuid.UUID, p checkout.RentalPayload) *models.Rental {
	rental := &models.Rental{
		ID:             id,
		CustomerID:     p.CustomerID,
		CustomerName:   p.CustomerName,
		DP:             p.DP,
		TotalRentPrice: p.TotalRentPrice,
		Status:         p.Status,
	}
	for _, d := range p.Details {
		rental.Details = append(rental.Details, models.RentalDetail{
			ID:          uuid.New(),
			RentalID:    id,
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Qty:         d.Qty,
			RentPrice:   d.RentPrice,
			StartDate:   d.StartDate,
			EndDate:     d.EndDate,
		})
	}
	return rental
}

func input(d *decimal.Decimal) pricing.Input {
	if d == nil {
		return pricing.Unset()
	}
	return pricing.Value(*d)
}

func transactionRecord(trx *models.Transaction) *records.Transaction {
	out := &records.Transaction{
		UUID:     trx.ID.String(),
		Invoice:  trx.Invoice,
		Status:   trx.Status,
		Type:     trx.Type,
		Customer: &records.Customer{UUID: trx.CustomerID, Name: trx.CustomerName},
		Subtotal: pricing.Value(trx.Subtotal),
		Extra:    input(trx.Extra),
		PPH:      input(trx.PPH),
		PPN:      input(trx.PPN),
		Nego:     input(trx.Nego),
		DP:       pricing.Value(trx.DP),
		Total:    pricing.Value(trx.GrandTotal),
	}
	for _, d := range trx.Details {
		out.Details = append(out.Details, records.TransactionDetail{
			ID:      records.ID(d.ID.String()),
			Qty:     d.Qty,
			Price:   d.Price,
			Product: records.Product{UUID: d.ProductID, Title: d.ProductName},
		})
	}
	return out
}

func rentalRecord(rental *models.Rental) *records.Rental {
	out := &records.Rental{
		UUID:           rental.ID.String(),
		Invoice:        rental.Invoice,
		Status:         rental.Status,
		Customer:       &records.Customer{UUID: rental.CustomerID, Name: rental.CustomerName},
		DP:             pricing.Value(rental.DP),
		TotalRentPrice: pricing.Value(rental.TotalRentPrice),
	}
	for _, d := range rental.Details {
		out.Details = append(out.Details, records.RentalDetail{
			ID:        records.ID(d.ID.String()),
			Qty:       d.Qty,
			RentPrice: d.RentPrice,
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			Product:   records.Product{UUID: d.ProductID, Title: d.ProductName},
		})
	}
	return out
}
