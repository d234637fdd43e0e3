package repositories

import (
	"context"
	"time"

	"bsg-portal/registry/internal/constants"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type LeaveRequestRepository struct {
	db *gorm.DB
}

func NewLeaveRequestRepository(db *gorm.DB) *LeaveRequestRepository {
	return &LeaveRequestRepository{db: db}
}

func (r *LeaveRequestRepository) WithTx(tx *gorm.DB) *LeaveRequestRepository {
	return &LeaveRequestRepository{db: tx}
}

func (r *LeaveRequestRepository) Create(ctx context.Context, l *gormModels.LeaveRequest) error {
	return classify("create leave request", r.db.WithContext(ctx).Create(l).Error)
}

func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (*gormModels.LeaveRequest, error) {
	var l gormModels.LeaveRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, classify("fetch leave request", err)
	}
	return &l, nil
}

// Review moves a pending request to a terminal status. It reports false when
// the request is no longer pending (or does not exist).
func (r *LeaveRequestRepository) Review(
	ctx context.Context,
	id string,
	status constants.LeaveStatus,
	comment *string,
	reviewer string,
	at time.Time,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.LeaveRequest{}).
		Where("id = ? AND status = ?", id, constants.LeavePending).
		Updates(map[string]interface{}{
			"status":        status,
			"admin_comment": comment,
			"reviewed_by":   reviewer,
			"reviewed_at":   at,
		})
	if res.Error != nil {
		return false, classify("review leave request", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// List returns all requests, or only the given user's when userID is non-empty.
func (r *LeaveRequestRepository) List(ctx context.Context, userID string) ([]gormModels.LeaveRequest, error) {
	q := r.db.WithContext(ctx)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []gormModels.LeaveRequest
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, classify("list leave requests", err)
	}
	return out, nil
}

func (r *LeaveRequestRepository) DeleteForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.LeaveRequest{}).Error
	return classify("delete leave requests", err)
}
