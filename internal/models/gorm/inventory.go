package gorm

import (
	"time"

	"gorm.io/gorm"
)

// Resource stock always satisfies 0 <= available_quantity <= total_quantity.
type Resource struct {
	ID                string    `gorm:"column:id;primaryKey;size:36"`
	Name              string    `gorm:"column:name;size:200;not null"`
	Category          string    `gorm:"column:category;size:100;not null;index"`
	TotalQuantity     int       `gorm:"column:total_quantity;not null;check:chk_resources_total,total_quantity >= 0"`
	AvailableQuantity int       `gorm:"column:available_quantity;not null;check:chk_resources_available,available_quantity >= 0 AND available_quantity <= total_quantity"`
	Unit              string    `gorm:"column:unit;size:32"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Resource) TableName() string {
	return "resources"
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ResourceAssignment is active while ReturnedAt is nil.
type ResourceAssignment struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	ResourceID string     `gorm:"column:resource_id;size:36;not null;index"`
	UserID     string     `gorm:"column:user_id;size:36;not null;index"`
	Quantity   int        `gorm:"column:quantity;not null;check:chk_resource_assignments_quantity,quantity >= 1"`
	AssignedAt time.Time  `gorm:"column:assigned_at;index"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`

	// Relationships
	Resource Resource `gorm:"foreignKey:ResourceID"`
}

// TableName specifies the table name for GORM
func (ResourceAssignment) TableName() string {
	return "resource_assignments"
}

func (a *ResourceAssignment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
