// Package repo holds helpers shared by gorm-backed repositories.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Base binds a repository to a connection or to an open transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx rebinds the base to tx. A nil tx keeps the current connection.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// First loads the first row matching query into dest. A missing row is
// reported as false with no error.
func First(query *gorm.DB, dest any, conds ...any) (bool, error) {
	err := query.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
