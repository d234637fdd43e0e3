package gorm

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuthUser is the credential record owned by the local auth provider.
type AuthUser struct {
	ID           string         `gorm:"column:id;primaryKey;size:36"`
	Email        string         `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Metadata     datatypes.JSON `gorm:"column:metadata"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	LastSignInAt *time.Time     `gorm:"column:last_sign_in_at"`
}

// TableName specifies the table name for GORM
func (AuthUser) TableName() string {
	return "auth_users"
}

func (u *AuthUser) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
