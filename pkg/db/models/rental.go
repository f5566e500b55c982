package models

import (
	"time"

	"github.com/angelmondragon/rentpos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rental is a confirmed rental with its per-line periods.
type Rental struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Invoice        string          `gorm:"column:invoice;not null;uniqueIndex:rentals_invoice_key"`
	CustomerID     string          `gorm:"column:customer_id;not null"`
	CustomerName   string          `gorm:"column:customer_name"`
	DP             decimal.Decimal `gorm:"column:dp;type:numeric(16,2);not null"`
	TotalRentPrice decimal.Decimal `gorm:"column:total_rent_price;type:numeric(16,2);not null"`
	Status         string          `gorm:"column:status;not null"`
	Details        []RentalDetail  `gorm:"foreignKey:RentalID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

type RentalDetail struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	RentalID    uuid.UUID       `gorm:"column:rental_id;type:uuid;not null;index"`
	ProductID   string          `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name"`
	Qty         int             `gorm:"column:qty;not null"`
	RentPrice   decimal.Decimal `gorm:"column:rent_price;type:numeric(16,2);not null"`
	StartDate   types.Date      `gorm:"column:start_date;type:date"`
	EndDate     types.Date      `gorm:"column:end_date;type:date"`
}
