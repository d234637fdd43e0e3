package gorm

import (
	"github.com/google/uuid"
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&AuthUser{},
		&UIDCounter{},
		&Profile{},
		&UserRole{},
		&Activity{},
		&ActivityRegistration{},
		&Meeting{},
		&Attendance{},
		&Resource{},
		&ResourceAssignment{},
		&LeaveRequest{},
		&Announcement{},
		&Certificate{},
		&Notification{},
	}
}
