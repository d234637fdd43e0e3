package constants

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

func (s MemberStatus) Valid() bool { return s == MemberActive || s == MemberInactive }

type ActivityStatus string

const (
	ActivityUpcoming  ActivityStatus = "upcoming"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

func (s ActivityStatus) Valid() bool {
	return s == ActivityUpcoming || s == ActivityCompleted || s == ActivityCancelled
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

func (s AttendanceStatus) Valid() bool { return s == AttendancePresent || s == AttendanceAbsent }

// LeaveStatus: pending is the only initial state; approved and rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

func (s LeaveStatus) Terminal() bool { return s == LeaveApproved || s == LeaveRejected }

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
	ImportanceUrgent Importance = "urgent"
)

func (i Importance) Valid() bool {
	switch i {
	case ImportanceLow, ImportanceNormal, ImportanceHigh, ImportanceUrgent:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationActivity     NotificationType = "activity"
	NotificationLeave        NotificationType = "leave"
	NotificationAnnouncement NotificationType = "announcement"
	NotificationMeeting      NotificationType = "meeting"
	NotificationCertificate  NotificationType = "certificate"
)
