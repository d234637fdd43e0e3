package gorm

import (
	"time"

	"gorm.io/gorm"
)

type Certificate struct {
	ID             string    `gorm:"column:id;primaryKey;size:36"`
	Name           string    `gorm:"column:name;size:200;not null"`
	EventName      string    `gorm:"column:event_name;size:200;not null"`
	UserID         string    `gorm:"column:user_id;size:36;not null;index"`
	IssueDate      string    `gorm:"column:issue_date;size:10;not null"`
	CertificateURL *string   `gorm:"column:certificate_url"`
	CreatedBy      string    `gorm:"column:created_by;size:36"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
