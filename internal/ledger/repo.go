package ledger

import (
	"context"
	"time"

	"github.com/angelmondragon/rentpos-backend/internal/repo"
	"github.com/angelmondragon/rentpos-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository manages persistence for confirmed transactions and rentals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, trx *models.Transaction) error
	ReplaceTransaction(ctx context.Context, trx *models.Transaction) error
	FindTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
	CreateRental(ctx context.Context, rental *models.Rental) error
	ReplaceRental(ctx context.Context, rental *models.Rental) error
	FindRental(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	UpdateRentalStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
	CountInvoices(ctx context.Context, prefix string) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) CreateTransaction(ctx context.Context, trx *models.Transaction) error {
	return r.DB(ctx).Create(trx).Error
}

// ReplaceTransaction overwrites the header and swaps the detail rows.
func (r *repository) ReplaceTransaction(ctx context.Context, trx *models.Transaction) error {
	conn := r.DB(ctx)
	if err := conn.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionDetail{}).Error; err != nil {
		return err
	}
	trx.UpdatedAt = time.Now().UTC()
	if err := conn.Omit("Details", "CreatedAt").Save(trx).Error; err != nil {
		return err
	}
	if len(trx.Details) == 0 {
		return nil
	}
	return conn.Create(&trx.Details).Error
}

func (r *repository) FindTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var trx models.Transaction
	found, err := repo.First(r.DB(ctx).Preload("Details"), &trx, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &trx, nil
}

func (r *repository) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	res := r.DB(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CreateRental(ctx context.Context, rental *models.Rental) error {
	return r.DB(ctx).Create(rental).Error
}

func (r *repository) ReplaceRental(ctx context.Context, rental *models.Rental) error {
	conn := r.DB(ctx)
	if err := conn.Where("rental_id = ?", rental.ID).Delete(&models.RentalDetail{}).Error; err != nil {
		return err
	}
	rental.UpdatedAt = time.Now().UTC()
	if err := conn.Omit("Details", "CreatedAt").Save(rental).Error; err != nil {
		return err
	}
	if len(rental.Details) == 0 {
		return nil
	}
	return conn.Create(&rental.Details).Error
}

func (r *repository) FindRental(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	found, err := repo.First(r.DB(ctx).Preload("Details"), &rental, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &rental, nil
}

func (r *repository) UpdateRentalStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	res := r.DB(ctx).Model(&models.Rental{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

// CountInvoices counts stored invoices sharing prefix across both tables.
func (r *repository) CountInvoices(ctx context.Context, prefix string) (int64, error) {
	var trxCount, rentalCount int64
	conn := r.DB(ctx)
	if err := conn.Model(&models.Transaction{}).Where("invoice LIKE ?", prefix+"%").Count(&trxCount).Error; err != nil {
		return 0, err
	}
	if err := conn.Model(&models.Rental{}).Where("invoice LIKE ?", prefix+"%").Count(&rentalCount).Error; err != nil {
		return 0, err
	}
	return trxCount + rentalCount, nil
}
