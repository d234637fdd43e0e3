package gorm

import (
	"time"

	"bsg-portal/registry/internal/constants"

	"gorm.io/gorm"
)

type Profile struct {
	ID                   string                 `gorm:"column:id;primaryKey;size:36"`
	UserID               string                 `gorm:"column:user_id;size:36;uniqueIndex;not null"`
	UID                  string                 `gorm:"column:uid;size:16;uniqueIndex;not null"`
	FirstName            string                 `gorm:"column:first_name;size:50;not null"`
	MiddleName           *string                `gorm:"column:middle_name;size:50"`
	LastName             string                 `gorm:"column:last_name;size:50;not null"`
	Gender               *string                `gorm:"column:gender;size:20"`
	DateOfBirth          *string                `gorm:"column:date_of_birth;size:10"`
	CourseDuration       *string                `gorm:"column:course_duration;size:50"`
	CollegeName          *string                `gorm:"column:college_name;size:200"`
	CurrentSemester      *int                   `gorm:"column:current_semester"`
	EnrollmentNumber     *string                `gorm:"column:enrollment_number;size:50"`
	ClassCoordinatorName *string                `gorm:"column:class_coordinator_name;size:100"`
	HODName              *string                `gorm:"column:hod_name;size:100"`
	PrincipalName        *string                `gorm:"column:principal_name;size:100"`
	WhatsappNumber       *string                `gorm:"column:whatsapp_number;size:10"`
	AadhaarNumber        *string                `gorm:"column:aadhaar_number;size:12"`
	BloodGroup           *string                `gorm:"column:blood_group;size:3"`
	ProfilePhotoURL      *string                `gorm:"column:profile_photo_url"`
	Status               constants.MemberStatus `gorm:"column:status;size:16;not null"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = constants.MemberActive
	}
	return nil
}

// FullName joins first, middle and last name, skipping an empty middle name.
func (p *Profile) FullName() string {
	if p.MiddleName != nil && *p.MiddleName != "" {
		return p.FirstName + " " + *p.MiddleName + " " + p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// UserRole is one element of a member's role set.
type UserRole struct {
	ID        string         `gorm:"column:id;primaryKey;size:36"`
	UserID    string         `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      constants.Role `gorm:"column:role;size:16;not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// UIDCounter backs sequential member uid allocation.
type UIDCounter struct {
	Name  string `gorm:"column:name;primaryKey;size:32"`
	Value int64  `gorm:"column:value;not null"`
}

// TableName specifies the table name for GORM
func (UIDCounter) TableName() string {
	return "uid_counters"
}
