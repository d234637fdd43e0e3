package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

type Notification struct {
	ID        string                     `gorm:"column:id;primaryKey;size:36"`
	UserID    string                     `gorm:"column:user_id;size:36;not null;index"`
	Type      constants.NotificationType `gorm:"column:type;size:16;not null"`
	Title     string                     `gorm:"column:title;size:200;not null"`
	Message   string                     `gorm:"column:message;size:1000;not null"`
	IsRead    bool                       `gorm:"column:is_read;not null"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
