package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: tx}
}

func (r *CertificateRepository) Create(ctx context.Context, c *gormModels.Certificate) error {
	return classify("create certificate", r.db.WithContext(ctx).Create(c).Error)
}

func (r *CertificateRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Certificate{})
	return affected("delete certificate", res)
}

// List returns certificates newest first, filtered to one recipient when userID is set.
func (r *CertificateRepository) List(ctx context.Context, userID string) ([]gormModels.Certificate, error) {
	q := r.db.WithContext(ctx)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []gormModels.Certificate
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, classify("list certificates", err)
	}
	return out, nil
}

func (r *CertificateRepository) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.Certificate{}).Error
	return classify("delete certificates", err)
}
