package dtos

import "time"

// IssuedMember is returned once, at issue time; the password is never stored in clear.
type IssuedMember struct {
	UserID   string `json:"user_id"`
	UID      string `json:"uid"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SessionResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        MemberView `json:"user"`
}

type MemberView struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	UID                  string    `json:"uid"`
	FirstName            string    `json:"first_name"`
	MiddleName           *string   `json:"middle_name"`
	LastName             string    `json:"last_name"`
	FullName             string    `json:"full_name"`
	Gender               *string   `json:"gender"`
	DateOfBirth          *string   `json:"date_of_birth"`
	CourseDuration       *string   `json:"course_duration"`
	CollegeName          *string   `json:"college_name"`
	CurrentSemester      *int      `json:"current_semester"`
	EnrollmentNumber     *string   `json:"enrollment_number"`
	ClassCoordinatorName *string   `json:"class_coordinator_name"`
	HODName              *string   `json:"hod_name"`
	PrincipalName        *string   `json:"principal_name"`
	WhatsappNumber       *string   `json:"whatsapp_number"`
	AadhaarNumber        *string   `json:"aadhaar_number"`
	BloodGroup           *string   `json:"blood_group"`
	ProfilePhotoURL      *string   `json:"profile_photo_url"`
	Status               string    `json:"status"`
	Role                 string    `json:"role"`
	Roles                []string  `json:"roles"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ActivityView struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         *string   `json:"description"`
	ActivityDate        string    `json:"activity_date"`
	ActivityTime        *string   `json:"activity_time"`
	Location            *string   `json:"location"`
	Status              string    `json:"status"`
	RegistrationEnabled bool      `json:"registration_enabled"`
	Capacity            *int      `json:"capacity"`
	CreatedBy           string    `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	RegisteredCount     int64     `json:"registered_count"`
	IsRegistered        bool      `json:"is_registered"`
}

type RegistrationView struct {
	ID           string    `json:"id"`
	ActivityID   string    `json:"activity_id"`
	UserID       string    `json:"user_id"`
	MemberName   string    `json:"member_name"`
	MemberUID    string    `json:"member_uid"`
	RegisteredAt time.Time `json:"registered_at"`
}

type AttendanceView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ActivityID *string   `json:"activity_id"`
	MeetingID  *string   `json:"meeting_id"`
	Status     string    `json:"status"`
	MarkedAt   time.Time `json:"marked_at"`
	MarkedBy   string    `json:"marked_by"`
	MemberName string    `json:"member_name"`
	MemberUID  string    `json:"member_uid"`
}

type ResourceView struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	TotalQuantity     int       `json:"total_quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	Unit              string    `json:"unit"`
	CreatedAt         time.Time `json:"created_at"`
}

type AssignmentView struct {
	ID           string     `json:"id"`
	ResourceID   string     `json:"resource_id"`
	ResourceName string     `json:"resource_name"`
	ResourceUnit string     `json:"resource_unit"`
	UserID       string     `json:"user_id"`
	MemberName   string     `json:"member_name"`
	MemberUID    string     `json:"member_uid"`
	Quantity     int        `json:"quantity"`
	AssignedAt   time.Time  `json:"assigned_at"`
	ReturnedAt   *time.Time `json:"returned_at"`
}

type LeaveRequestView struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserUID      string     `json:"user_uid"`
	FromDate     string     `json:"from_date"`
	ToDate       string     `json:"to_date"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	AdminComment *string    `json:"admin_comment"`
	ReviewedBy   *string    `json:"reviewed_by"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type AnnouncementView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Importance    string    `json:"importance"`
	AttachmentURL *string   `json:"attachment_url"`
	ExpiryDate    *string   `json:"expiry_date"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type MeetingView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	MeetingDate string    `json:"meeting_date"`
	MeetingTime *string   `json:"meeting_time"`
	Location    *string   `json:"location"`
	Agenda      *string   `json:"agenda"`
	MomURL      *string   `json:"mom_url"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type CertificateView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EventName      string    `json:"event_name"`
	UserID         string    `json:"user_id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientUID   string    `json:"recipient_uid"`
	IssueDate      string    `json:"issue_date"`
	CertificateURL *string   `json:"certificate_url"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type NotificationView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalMembers         int64 `json:"total_members"`
	ActiveMembers        int64 `json:"active_members"`
	UpcomingActivities   int64 `json:"upcoming_activities"`
	PendingLeaves        int64 `json:"pending_leaves"`
	LowStockItems        int64 `json:"low_stock_items"`
	AttendancePercentage int   `json:"attendance_percentage"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Services map[string]string `json:"services"`
}

type RolesResponse struct {
	UserID      string   `json:"user_id"`
	DisplayRole string   `json:"display_role"`
	Roles       []string `json:"roles"`
}

type CountResponse struct {
	Updated int64 `json:"updated"`
}

type SignedURLResponse struct {
	SignedURL string `json:"signed_url"`
	ExpiresIn int    `json:"expires_in"`
}

type UploadResponse struct {
	Ref       string `json:"ref"`
	SignedURL string `json:"signed_url"`
}
