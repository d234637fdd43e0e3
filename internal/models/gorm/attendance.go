package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

// Attendance references exactly one of an activity or a meeting.
type Attendance struct {
	ID         string                     `gorm:"column:id;primaryKey;size:36"`
	UserID     string                     `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_attendance_user_activity;uniqueIndex:idx_attendance_user_meeting"`
	ActivityID *string                    `gorm:"column:activity_id;size:36;uniqueIndex:idx_attendance_user_activity;check:chk_attendance_one_event,(activity_id IS NULL) <> (meeting_id IS NULL)"`
	MeetingID  *string                    `gorm:"column:meeting_id;size:36;uniqueIndex:idx_attendance_user_meeting"`
	Status     constants.AttendanceStatus `gorm:"column:status;size:16;not null"`
	MarkedAt   time.Time                  `gorm:"column:marked_at;index"`
	MarkedBy   string                     `gorm:"column:marked_by;size:36"`
}

// TableName specifies the table name for GORM
func (Attendance) TableName() string {
	return "attendance"
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
