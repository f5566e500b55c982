package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a confirmed sale or repair. Nullable tax and extra columns
// stay NULL for the variant that does not produce them.
type Transaction struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Invoice           string              `gorm:"column:invoice;not null;uniqueIndex:transactions_invoice_key"`
	Type              string              `gorm:"column:type;not null;default:'sale'"`
	TaxVariant        *string             `gorm:"column:tax_variant"`
	CustomerID        string              `gorm:"column:customer_id;not null"`
	CustomerName      string              `gorm:"column:customer_name"`
	Subtotal          decimal.Decimal     `gorm:"column:subtotal;type:numeric(16,2);not null"`
	SubtotalPlusExtra *decimal.Decimal    `gorm:"column:subtotal_plus_extra;type:numeric(16,2)"`
	Extra             *decimal.Decimal    `gorm:"column:extra;type:numeric(16,2)"`
	PPH               *decimal.Decimal    `gorm:"column:pph;type:numeric(7,4)"`
	PPHNominal        *decimal.Decimal    `gorm:"column:pph_nominal;type:numeric(16,2)"`
	PPN               *decimal.Decimal    `gorm:"column:ppn;type:numeric(7,4)"`
	PPNNominal        *decimal.Decimal    `gorm:"column:ppn_nominal;type:numeric(16,2)"`
	Nego              *decimal.Decimal    `gorm:"column:nego;type:numeric(16,2)"`
	DP                decimal.Decimal     `gorm:"column:dp;type:numeric(16,2);not null"`
	GrandTotal        decimal.Decimal     `gorm:"column:grand_total;type:numeric(16,2);not null"`
	Status            string              `gorm:"column:status;not null"`
	Details           []TransactionDetail `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

type TransactionDetail struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;index"`
	ProductID     string          `gorm:"column:product_id;not null"`
	ProductName   string          `gorm:"column:product_name"`
	Qty           int             `gorm:"column:qty;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(16,2);not null"`
}
