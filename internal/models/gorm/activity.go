package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

type Activity struct {
	ID          string  `gorm:"column:id;primaryKey;size:36"`
	Name        string  `gorm:"column:name;size:200;not null"`
	Description *string `gorm:"column:description;size:2000"`
	// YYYY-MM-DD
	ActivityDate        string                   `gorm:"column:activity_date;size:10;not null;index"`
	ActivityTime        *string                  `gorm:"column:activity_time;size:8"`
	Location            *string                  `gorm:"column:location;size:200"`
	Status              constants.ActivityStatus `gorm:"column:status;size:16;not null"`
	RegistrationEnabled bool                     `gorm:"column:registration_enabled;not null"`
	Capacity            *int                     `gorm:"column:capacity"`
	CreatedBy           string                   `gorm:"column:created_by;size:36"`
	CreatedAt           time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	if a.Status == "" {
		a.Status = constants.ActivityUpcoming
	}
	return nil
}

type ActivityRegistration struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	ActivityID   string    `gorm:"column:activity_id;size:36;not null;uniqueIndex:idx_activity_registrations_pair"`
	UserID       string    `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_activity_registrations_pair;index"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime"`

	// Relationships
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (ActivityRegistration) TableName() string {
	return "activity_registrations"
}

func (r *ActivityRegistration) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
