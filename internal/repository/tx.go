package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs a function inside a single database transaction. The booking
// workflow depends on this interface so the unit tests can substitute a
// pass-through runner.
type TxRunner interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxRunner {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
