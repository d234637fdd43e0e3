package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) WithTx(tx *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: tx}
}

func (r *MeetingRepository) Create(ctx context.Context, m *gormModels.Meeting) error {
	return classify("create meeting", r.db.WithContext(ctx).Create(m).Error)
}

func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*gormModels.Meeting, error) {
	var m gormModels.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, classify("fetch meeting", err)
	}
	return &m, nil
}

func (r *MeetingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&gormModels.Meeting{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, classify("check meeting", err)
	}
	return n > 0, nil
}

// List returns meetings, latest date first.
func (r *MeetingRepository) List(ctx context.Context) ([]gormModels.Meeting, error) {
	var meetings []gormModels.Meeting
	err := r.db.WithContext(ctx).
		Order("meeting_date DESC").
		Order("created_at DESC").
		Find(&meetings).Error
	if err != nil {
		return nil, classify("list meetings", err)
	}
	return meetings, nil
}

func (r *MeetingRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Meeting{}).
		Where("id = ?", id).
		Updates(fields)
	return affected("update meeting", res)
}

func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Meeting{})
	return affected("delete meeting", res)
}
