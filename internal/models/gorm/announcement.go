package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

type Announcement struct {
	ID            string               `gorm:"column:id;primaryKey;size:36"`
	Title         string               `gorm:"column:title;size:200;not null"`
	Content       string               `gorm:"column:content;size:5000;not null"`
	Importance    constants.Importance `gorm:"column:importance;size:16;not null"`
	AttachmentURL *string              `gorm:"column:attachment_url"`
	// nil means the announcement never expires
	ExpiryDate *string   `gorm:"column:expiry_date;size:10;index"`
	CreatedBy  string    `gorm:"column:created_by;size:36"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	if a.Importance == "" {
		a.Importance = constants.ImportanceNormal
	}
	return nil
}
