package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/rentpos-backend/internal/cart"
	"github.com/angelmondragon/rentpos-backend/internal/notify"
	"github.com/angelmondragon/rentpos-backend/internal/pricing"
	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/google/uuid"
)

// Repository is the persistence collaborator that owns stored records.
type Repository interface {
	Transaction(ctx context.Context, id string) (*Transaction, error)
	Rental(ctx context.Context, id string) (*Rental, error)
	UpdateTransactionStatus(ctx context.Context, id string, status enums.TransactionStatus) error
	UpdateRentalStatus(ctx context.Context, id string, status enums.RentalStatus) error
	NextInvoice(ctx context.Context, kind enums.DraftKind) (string, error)
}

// Service loads stored records back into drafts and manages their status.
type Service interface {
	LoadTransaction(ctx context.Context, session, id string) (*cart.View, error)
	LoadRental(ctx context.Context, session, id string) (*cart.View, error)
	SetTransactionStatus(ctx context.Context, id, status string) error
	SetRentalStatus(ctx context.Context, id, status string) error
	NextInvoice(ctx context.Context, kind enums.DraftKind) (string, error)
}

type service struct {
	repo     Repository
	drafts   cart.Service
	notifier notify.Notifier
}

func NewService(repo Repository, drafts cart.Service, notifier notify.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("records repository required")
	}
	if drafts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if notifier == nil {
		notifier = notify.Nop
	}
	return &service{repo: repo, drafts: drafts, notifier: notifier}, nil
}

func (s *service) LoadTransaction(ctx context.Context, session, id string) (*cart.View, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	trx, err := s.repo.Transaction(ctx, id)
	if err != nil || trx == nil {
		return nil, s.fetchFailed(ctx, err, "Transaksi tidak ditemukan", "transaction not found")
	}
	return s.drafts.Replace(ctx, TransactionDraft(session, id, trx))
}

func (s *service) LoadRental(ctx context.Context, session, id string) (*cart.View, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental id is required")
	}
	rental, err := s.repo.Rental(ctx, id)
	if err != nil || rental == nil {
		return nil, s.fetchFailed(ctx, err, "Rental tidak ditemukan", "rental not found")
	}
	return s.drafts.Replace(ctx, RentalDraft(session, id, rental))
}

func (s *service) SetTransactionStatus(ctx context.Context, id, status string) error {
	parsed, err := enums.ParseTransactionStatus(strings.TrimSpace(status))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction status")
	}
	return s.repo.UpdateTransactionStatus(ctx, id, parsed)
}

func (s *service) SetRentalStatus(ctx context.Context, id, status string) error {
	parsed, err := enums.ParseRentalStatus(strings.TrimSpace(status))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rental status")
	}
	return s.repo.UpdateRentalStatus(ctx, id, parsed)
}

func (s *service) NextInvoice(ctx context.Context, kind enums.DraftKind) (string, error) {
	if !kind.IsValid() {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid draft kind %q", kind)
	}
	return s.repo.NextInvoice(ctx, kind)
}

// fetchFailed raises the blocking notification and maps the cause. An
// unauthorized cause is kept so the caller can re-authenticate.
func (s *service) fetchFailed(ctx context.Context, cause error, userMessage, message string) error {
	s.notifier.Notify(ctx, notify.Error("Gagal memuat data", userMessage))
	if pkgerrors.IsCode(cause, pkgerrors.CodeUnauthorized) {
		return cause
	}
	if cause == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, message)
}

// TransactionDraft rebuilds an editing draft from a stored transaction.
func TransactionDraft(session, id string, trx *Transaction) *cart.Draft {
	d := &cart.Draft{
		ID:        uuid.New(),
		Session:   session,
		Kind:      enums.DraftKindSale,
		Customer:  customer(trx.Customer),
		Status:    trx.Status,
		Invoice:   trx.Invoice,
		EditingID: id,
		Lines:     make([]cart.Line, 0, len(trx.Details)),
	}

	if trx.Type == "repair" {
		d.Kind = enums.DraftKindRepair
		d.Adjustments = pricing.Adjustments{
			RepairCost:         zeroAsUnset(trx.Subtotal),
			RepairExtra:        zeroAsUnset(trx.Extra),
			WithholdingPercent: zeroAsUnset(trx.PPH),
			DownPayment:        zeroAsUnset(trx.DP),
		}
	} else {
		d.TaxVariant = enums.TaxVariantWithholding
		if zeroAsUnset(trx.PPN).IsSet() && !zeroAsUnset(trx.PPH).IsSet() {
			d.TaxVariant = enums.TaxVariantValueAdded
		}
		d.Adjustments = pricing.Adjustments{
			Extra:              zeroAsUnset(trx.Extra),
			WithholdingPercent: zeroAsUnset(trx.PPH),
			ValueAddedPercent:  zeroAsUnset(trx.PPN),
			Discount:           zeroAsUnset(trx.Nego),
			DownPayment:        zeroAsUnset(trx.DP),
		}
	}

	for _, detail := range trx.Details {
		d.Lines = append(d.Lines, cart.Line{
			ID:        uuid.New(),
			DetailID:  detail.ID.String(),
			ProductID: detail.Product.UUID,
			Name:      detail.Product.Title,
			Image:     detail.Product.Image,
			UnitPrice: detail.Price,
			Qty:       detail.Qty,
		})
	}
	return d
}

// RentalDraft rebuilds an editing draft from a stored rental.
func RentalDraft(session, id string, rental *Rental) *cart.Draft {
	d := &cart.Draft{
		ID:          uuid.New(),
		Session:     session,
		Kind:        enums.DraftKindRental,
		Customer:    customer(rental.Customer),
		Status:      rental.Status,
		Invoice:     rental.Invoice,
		EditingID:   id,
		Adjustments: pricing.Adjustments{DownPayment: zeroAsUnset(rental.DP)},
		Lines:       make([]cart.Line, 0, len(rental.Details)),
	}
	for _, detail := range rental.Details {
		d.Lines = append(d.Lines, cart.Line{
			ID:        uuid.New(),
			DetailID:  detail.ID.String(),
			ProductID: detail.Product.UUID,
			Name:      detail.Product.Title,
			Image:     detail.Product.Image,
			RentRate:  detail.RentPrice,
			Qty:       detail.Qty,
			StartDate: detail.StartDate,
			EndDate:   detail.EndDate,
		})
	}
	return d
}

func customer(c *Customer) *cart.Customer {
	if c == nil || c.UUID == "" {
		return nil
	}
	return &cart.Customer{ID: c.UUID, Name: c.Name, Address: c.Address}
}

// zeroAsUnset treats a stored zero as "never entered".
func zeroAsUnset(in pricing.Input) pricing.Input {
	if v, ok := in.Decimal(); !ok || v.IsZero() {
		return pricing.Unset()
	}
	return in
}
