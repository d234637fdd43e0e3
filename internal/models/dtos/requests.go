package dtos

// ---- identity ----

// MemberProfileInput carries the optional profile fields shared by issue and update.
type MemberProfileInput struct {
	MiddleName           *string `json:"middle_name"            validate:"omitempty,max=50"`
	Gender               *string `json:"gender"                 validate:"omitempty,oneof=male female other"`
	DateOfBirth          *string `json:"date_of_birth"          validate:"omitempty,datetime=2006-01-02"`
	CourseDuration       *string `json:"course_duration"        validate:"omitempty,max=50"`
	CollegeName          *string `json:"college_name"           validate:"omitempty,max=200"`
	CurrentSemester      *int    `json:"current_semester"       validate:"omitempty,min=1,max=12"`
	EnrollmentNumber     *string `json:"enrollment_number"      validate:"omitempty,max=50"`
	ClassCoordinatorName *string `json:"class_coordinator_name" validate:"omitempty,max=100"`
	HODName              *string `json:"hod_name"               validate:"omitempty,max=100"`
	PrincipalName        *string `json:"principal_name"         validate:"omitempty,max=100"`
	WhatsappNumber       *string `json:"whatsapp_number"        validate:"omitempty,numeric,len=10"`
	AadhaarNumber        *string `json:"aadhaar_number"         validate:"omitempty,numeric,len=12"`
	BloodGroup           *string `json:"blood_group"            validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

type IssueMemberRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=50"`
	LastName  string  `json:"last_name"  validate:"required,max=50"`
	Role      *string `json:"role"       validate:"omitempty,oneof=admin coordinator executive core member"`
	MemberProfileInput
}

// UpdateMemberRequest is a partial update; nil fields are left unchanged.
type UpdateMemberRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=50"`
	MemberProfileInput
}

type UIDLoginRequest struct {
	UID      string `json:"uid"      validate:"required,max=16"`
	Password string `json:"password" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin coordinator executive core member"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type ProfilePhotoRequest struct {
	ProfilePhotoURL string `json:"profile_photo_url" validate:"required,max=2048"`
}

// ---- activities ----

type CreateActivityRequest struct {
	Name                string  `json:"name"                 validate:"required,max=200"`
	Description         *string `json:"description"          validate:"omitempty,max=2000"`
	ActivityDate        string  `json:"activity_date"        validate:"required,datetime=2006-01-02"`
	ActivityTime        *string `json:"activity_time"        validate:"omitempty,max=8"`
	Location            *string `json:"location"             validate:"omitempty,max=200"`
	Capacity            *int    `json:"capacity"             validate:"omitempty,min=1,max=10000"`
	RegistrationEnabled *bool   `json:"registration_enabled"`
}

type UpdateActivityRequest struct {
	Name                *string `json:"name"                 validate:"omitempty,min=1,max=200"`
	Description         *string `json:"description"          validate:"omitempty,max=2000"`
	ActivityDate        *string `json:"activity_date"        validate:"omitempty,datetime=2006-01-02"`
	ActivityTime        *string `json:"activity_time"        validate:"omitempty,max=8"`
	Location            *string `json:"location"             validate:"omitempty,max=200"`
	Capacity            *int    `json:"capacity"             validate:"omitempty,min=1,max=10000"`
	RegistrationEnabled *bool   `json:"registration_enabled"`
	Status              *string `json:"status"               validate:"omitempty,oneof=upcoming completed cancelled"`
}

// ---- attendance ----

type AttendanceRecordInput struct {
	UserID     string  `json:"user_id"     validate:"required"`
	ActivityID *string `json:"activity_id"`
	MeetingID  *string `json:"meeting_id"`
	Status     string  `json:"status"      validate:"required,oneof=present absent"`
}

type MarkAttendanceRequest struct {
	Records []AttendanceRecordInput `json:"records" validate:"required,min=1,dive"`
}

// ---- inventory ----

type CreateResourceRequest struct {
	Name          string `json:"name"           validate:"required,max=200"`
	Category      string `json:"category"       validate:"required,max=100"`
	TotalQuantity int    `json:"total_quantity" validate:"min=0,max=1000000"`
	Unit          string `json:"unit"           validate:"max=32"`
}

type AssignResourceRequest struct {
	ResourceID string `json:"resource_id" validate:"required"`
	UserID     string `json:"user_id"     validate:"required"`
	Quantity   int    `json:"quantity"    validate:"required,min=1"`
}

// ---- leave ----

type LeaveRequestInput struct {
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date"   validate:"required,datetime=2006-01-02"`
	Reason   string `json:"reason"    validate:"required,max=500"`
}

type ReviewLeaveRequest struct {
	Decision string  `json:"decision"      validate:"required,oneof=approved rejected"`
	Comment  *string `json:"admin_comment" validate:"omitempty,max=500"`
}

// ---- announcements / meetings / certificates ----

type CreateAnnouncementRequest struct {
	Title         string  `json:"title"          validate:"required,max=200"`
	Content       string  `json:"content"        validate:"required,max=5000"`
	Importance    *string `json:"importance"     validate:"omitempty,oneof=low normal high urgent"`
	AttachmentURL *string `json:"attachment_url" validate:"omitempty,max=2048"`
	ExpiryDate    *string `json:"expiry_date"    validate:"omitempty,datetime=2006-01-02"`
}

type MeetingRequest struct {
	Title       string  `json:"title"        validate:"required,max=200"`
	MeetingDate string  `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	MeetingTime *string `json:"meeting_time" validate:"omitempty,max=8"`
	Location    *string `json:"location"     validate:"omitempty,max=200"`
	Agenda      *string `json:"agenda"       validate:"omitempty,max=2000"`
}

type UpdateMeetingRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1,max=200"`
	MeetingDate *string `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
	MeetingTime *string `json:"meeting_time" validate:"omitempty,max=8"`
	Location    *string `json:"location"     validate:"omitempty,max=200"`
	Agenda      *string `json:"agenda"       validate:"omitempty,max=2000"`
}

type MinutesRequest struct {
	MomURL string `json:"mom_url" validate:"required,max=2048"`
}

type IssueCertificateRequest struct {
	Name           string  `json:"name"            validate:"required,max=200"`
	EventName      string  `json:"event_name"      validate:"required,max=200"`
	UserID         string  `json:"user_id"         validate:"required,uuid"`
	IssueDate      string  `json:"issue_date"      validate:"required,datetime=2006-01-02"`
	CertificateURL *string `json:"certificate_url" validate:"omitempty,max=2048"`
}

// ---- storage ----

type SignURLRequest struct {
	Bucket    string `json:"bucket"     validate:"required,oneof=avatars certificates documents"`
	Path      string `json:"path"       validate:"required,max=1024"`
	ExpiresIn int    `json:"expires_in" validate:"omitempty,min=1,max=604800"`
}
