package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(ctx context.Context, n *gormModels.Notification) error {
	return classify("create notification", r.db.WithContext(ctx).Create(n).Error)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]gormModels.Notification, error) {
	var out []gormModels.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, classify("list notifications", err)
	}
	return out, nil
}

// MarkRead flags one of the user's notifications as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return affected("mark notification read", res)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, classify("mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.Notification{}).Error
	return classify("delete notifications", err)
}
