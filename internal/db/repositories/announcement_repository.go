package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *gormModels.Announcement) error {
	return classify("create announcement", r.db.WithContext(ctx).Create(a).Error)
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Announcement{})
	return affected("delete announcement", res)
}

// ListCurrent returns announcements that never expire or expire on or after
// today (YYYY-MM-DD), newest first.
func (r *AnnouncementRepository) ListCurrent(ctx context.Context, today string) ([]gormModels.Announcement, error) {
	var out []gormModels.Announcement
	err := r.db.WithContext(ctx).
		Where("expiry_date IS NULL OR expiry_date >= ?", today).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, classify("list announcements", err)
	}
	return out, nil
}
