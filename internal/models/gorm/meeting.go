package gorm

import (
	"time"

	"gorm.io/gorm"
)

type Meeting struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Title       string    `gorm:"column:title;size:200;not null"`
	MeetingDate string    `gorm:"column:meeting_date;size:10;not null;index"`
	MeetingTime *string   `gorm:"column:meeting_time;size:8"`
	Location    *string   `gorm:"column:location;size:200"`
	Agenda      *string   `gorm:"column:agenda;size:2000"`
	MomURL      *string   `gorm:"column:mom_url"`
	CreatedBy   string    `gorm:"column:created_by;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
