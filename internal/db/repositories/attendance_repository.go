package repositories

import (
	"context"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) WithTx(tx *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: tx}
}

// CreateBatch inserts all records in one statement; any unique violation fails the batch.
func (r *AttendanceRepository) CreateBatch(ctx context.Context, records []gormModels.Attendance) error {
	if len(records) == 0 {
		return nil
	}
	return classify("mark attendance", r.db.WithContext(ctx).Create(&records).Error)
}

// Exists checks for a stored record for the user against the activity or meeting.
func (r *AttendanceRepository) Exists(ctx context.Context, userID string, activityID, meetingID *string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Attendance{}).Where("user_id = ?", userID)
	if activityID != nil {
		q = q.Where("activity_id = ?", *activityID)
	} else {
		q = q.Where("meeting_id = ?", *meetingID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, classify("check attendance", err)
	}
	return n > 0, nil
}

func (r *AttendanceRepository) ListByActivity(ctx context.Context, activityID string) ([]gormModels.Attendance, error) {
	return r.list(ctx, r.db.Where("activity_id = ?", activityID))
}

func (r *AttendanceRepository) ListByMeeting(ctx context.Context, meetingID string) ([]gormModels.Attendance, error) {
	return r.list(ctx, r.db.Where("meeting_id = ?", meetingID))
}

func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string) ([]gormModels.Attendance, error) {
	return r.list(ctx, r.db.Where("user_id = ?", userID))
}

func (r *AttendanceRepository) list(ctx context.Context, q *gorm.DB) ([]gormModels.Attendance, error) {
	var records []gormModels.Attendance
	if err := q.WithContext(ctx).Order("marked_at DESC").Find(&records).Error; err != nil {
		return nil, classify("list attendance", err)
	}
	return records, nil
}

func (r *AttendanceRepository) DeleteForMeeting(ctx context.Context, meetingID string) error {
	err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).Delete(&gormModels.Attendance{}).Error
	return classify("delete meeting attendance", err)
}

func (r *AttendanceRepository) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.Attendance{}).Error
	return classify("delete member attendance", err)
}
