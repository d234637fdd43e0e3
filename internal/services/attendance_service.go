package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type AttendanceService struct {
	db         *gorm.DB
	attendance *repositories.AttendanceRepository
	activities *repositories.ActivityRepository
	meetings   *repositories.MeetingRepository
	profiles   *repositories.ProfileRepository
	metrics    *metrics.MetricsRegistry
	clock      Clock
}

func NewAttendanceService(db *gorm.DB, metricsReg *metrics.MetricsRegistry, clock Clock) *AttendanceService {
	return &AttendanceService{
		db:         db,
		attendance: repositories.NewAttendanceRepository(db),
		activities: repositories.NewActivityRepository(db),
		meetings:   repositories.NewMeetingRepository(db),
		profiles:   repositories.NewProfileRepository(db),
		metrics:    metricsReg,
		clock:      clock,
	}
}

type eventKey struct {
	activity bool
	id       string
}

// MarkBatch records attendance for several members at once. Either every
// record is stored or none is.
func (s *AttendanceService) MarkBatch(ctx context.Context, caller auth.Caller, req dtos.MarkAttendanceRequest) ([]dtos.AttendanceView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.clock.now()
	records := make([]gormModels.Attendance, 0, len(req.Records))
	seen := make(map[string]bool, len(req.Records))
	events := make(map[eventKey]bool)
	for i, in := range req.Records {
		trimPtr(&in.ActivityID)
		trimPtr(&in.MeetingID)
		if (in.ActivityID == nil) == (in.MeetingID == nil) {
			return nil, apperr.Validation("records[%d]: exactly one of activity_id or meeting_id is required", i)
		}
		userID := strings.TrimSpace(in.UserID)
		ev := eventKey{activity: in.ActivityID != nil}
		if ev.activity {
			ev.id = *in.ActivityID
		} else {
			ev.id = *in.MeetingID
		}
		key := userID + "|" + ev.id
		if seen[key] {
			return nil, apperr.Conflict(apperr.CodeAttendanceExists, fmt.Sprintf("records[%d]: duplicate attendance in batch", i))
		}
		seen[key] = true
		events[ev] = true

		records = append(records, gormModels.Attendance{
			UserID:     userID,
			ActivityID: in.ActivityID,
			MeetingID:  in.MeetingID,
			Status:     constants.AttendanceStatus(in.Status),
			MarkedAt:   now,
			MarkedBy:   caller.UserID,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for ev := range events {
			var exists bool
			var err error
			if ev.activity {
				exists, err = s.activities.WithTx(tx).Exists(ctx, ev.id)
			} else {
				exists, err = s.meetings.WithTx(tx).Exists(ctx, ev.id)
			}
			if err != nil {
				return apperr.Backend("check event", err)
			}
			if !exists {
				if ev.activity {
					return apperr.NotFound("activity " + ev.id + " not found")
				}
				return apperr.NotFound("meeting " + ev.id + " not found")
			}
		}
		repo := s.attendance.WithTx(tx)
		for _, r := range records {
			dup, err := repo.Exists(ctx, r.UserID, r.ActivityID, r.MeetingID)
			if err != nil {
				return apperr.Backend("check attendance", err)
			}
			if dup {
				return apperr.Conflict(apperr.CodeAttendanceExists, "attendance already marked for member "+r.UserID)
			}
		}
		err := repo.CreateBatch(ctx, records)
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperr.Conflict(apperr.CodeAttendanceExists, "attendance already marked")
		}
		return apperr.Backend("mark attendance", err)
	})
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		s.metrics.AttendanceMarkedTotal.WithLabelValues(string(r.Status)).Inc()
	}
	logging.Info("Attendance marked", "records", len(records), "by", caller.UserID)
	return s.toViews(ctx, records)
}

// ListForEvent lists attendance for exactly one activity or meeting, newest first.
func (s *AttendanceService) ListForEvent(ctx context.Context, caller auth.Caller, activityID, meetingID string) ([]dtos.AttendanceView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	activityID, meetingID = strings.TrimSpace(activityID), strings.TrimSpace(meetingID)
	if (activityID == "") == (meetingID == "") {
		return nil, apperr.Validation("exactly one of activity_id or meeting_id is required")
	}
	records, err := readWithRetry(ctx, func() ([]gormModels.Attendance, error) {
		var rows []gormModels.Attendance
		var err error
		if activityID != "" {
			rows, err = s.attendance.ListByActivity(ctx, activityID)
		} else {
			rows, err = s.attendance.ListByMeeting(ctx, meetingID)
		}
		return rows, apperr.Backend("list attendance", err)
	})
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, records)
}

func (s *AttendanceService) ListForMember(ctx context.Context, caller auth.Caller, userID string) ([]dtos.AttendanceView, error) {
	if err := requireSelfOrAdminOrCoordinator(caller, userID); err != nil {
		return nil, err
	}
	records, err := readWithRetry(ctx, func() ([]gormModels.Attendance, error) {
		rows, err := s.attendance.ListByUser(ctx, userID)
		return rows, apperr.Backend("list attendance", err)
	})
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, records)
}

func (s *AttendanceService) toViews(ctx context.Context, records []gormModels.Attendance) ([]dtos.AttendanceView, error) {
	profiles, err := s.profiles.MapByUserIDs(ctx, uniqueUserIDs(records, func(a gormModels.Attendance) string { return a.UserID }))
	if err != nil {
		return nil, apperr.Backend("load members", err)
	}
	out := make([]dtos.AttendanceView, len(records))
	for i, r := range records {
		who := identityOf(profiles, r.UserID)
		out[i] = dtos.AttendanceView{
			ID:         r.ID,
			UserID:     r.UserID,
			ActivityID: r.ActivityID,
			MeetingID:  r.MeetingID,
			Status:     string(r.Status),
			MarkedAt:   r.MarkedAt,
			MarkedBy:   r.MarkedBy,
			MemberName: who.Name,
			MemberUID:  who.UID,
		}
	}
	return out, nil
}
