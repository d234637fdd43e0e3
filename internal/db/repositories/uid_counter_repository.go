package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type UIDCounterRepository struct {
	db *gorm.DB
}

func NewUIDCounterRepository(db *gorm.DB) *UIDCounterRepository {
	return &UIDCounterRepository{db: db}
}

func (r *UIDCounterRepository) WithTx(tx *gorm.DB) *UIDCounterRepository {
	return &UIDCounterRepository{db: tx}
}

// Next bumps the named counter and returns the new value. The increment is a
// single UPDATE so concurrent callers are serialized on the row lock; call it
// inside a transaction so the read-back sees this caller's increment.
func (r *UIDCounterRepository) Next(ctx context.Context, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.UIDCounter{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, classify("increment uid counter", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.db.WithContext(ctx).Create(&gormModels.UIDCounter{Name: name, Value: 1}).Error; err != nil {
			return 0, classify("create uid counter", err)
		}
		return 1, nil
	}

	var counter gormModels.UIDCounter
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, classify("read uid counter", err)
	}
	return counter.Value, nil
}
