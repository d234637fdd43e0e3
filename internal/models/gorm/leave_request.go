package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

type LeaveRequest struct {
	ID           string                `gorm:"column:id;primaryKey;size:36"`
	UserID       string                `gorm:"column:user_id;size:36;not null;index"`
	FromDate     string                `gorm:"column:from_date;size:10;not null"`
	ToDate       string                `gorm:"column:to_date;size:10;not null"`
	Reason       string                `gorm:"column:reason;size:500;not null"`
	Status       constants.LeaveStatus `gorm:"column:status;size:16;not null;index"`
	AdminComment *string               `gorm:"column:admin_comment;size:500"`
	ReviewedBy   *string               `gorm:"column:reviewed_by;size:36"`
	ReviewedAt   *time.Time            `gorm:"column:reviewed_at"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	if l.Status == "" {
		l.Status = constants.LeavePending
	}
	return nil
}
