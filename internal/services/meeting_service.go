package services

import (
	"context"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type MeetingService struct {
	db         *gorm.DB
	meetings   *repositories.MeetingRepository
	attendance *repositories.AttendanceRepository
	storage    *StorageService
}

func NewMeetingService(db *gorm.DB, storage *StorageService) *MeetingService {
	return &MeetingService{
		db:         db,
		meetings:   repositories.NewMeetingRepository(db),
		attendance: repositories.NewAttendanceRepository(db),
		storage:    storage,
	}
}

func (s *MeetingService) Create(ctx context.Context, caller auth.Caller, req dtos.MeetingRequest) (*dtos.MeetingView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	trimPtr(&req.MeetingTime)
	trimPtr(&req.Location)
	trimPtr(&req.Agenda)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	m := gormModels.Meeting{
		Title:       req.Title,
		MeetingDate: req.MeetingDate,
		MeetingTime: req.MeetingTime,
		Location:    req.Location,
		Agenda:      req.Agenda,
		CreatedBy:   caller.UserID,
	}
	if err := s.meetings.Create(ctx, &m); err != nil {
		return nil, apperr.Backend("create meeting", err)
	}
	logging.Info("Meeting scheduled", "meeting_id", m.ID, "date", m.MeetingDate, "by", caller.UserID)
	v := s.toView(ctx, &m)
	return &v, nil
}

func (s *MeetingService) Update(ctx context.Context, caller auth.Caller, id string, req dtos.UpdateMeetingRequest) (*dtos.MeetingView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperr.Validation("title must not be empty")
		}
		fields["title"] = title
	}
	if req.MeetingDate != nil {
		fields["meeting_date"] = *req.MeetingDate
	}
	for col, v := range map[string]*string{
		"meeting_time": req.MeetingTime,
		"location":     req.Location,
		"agenda":       req.Agenda,
	} {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			fields[col] = trimmed
		} else {
			fields[col] = nil
		}
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}
	return s.update(ctx, id, fields)
}

// SetMinutes attaches the minutes-of-meeting document.
func (s *MeetingService) SetMinutes(ctx context.Context, caller auth.Caller, id string, req dtos.MinutesRequest) (*dtos.MeetingView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.MomURL = strings.TrimSpace(req.MomURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, map[string]interface{}{"mom_url": req.MomURL})
}

func (s *MeetingService) update(ctx context.Context, id string, fields map[string]interface{}) (*dtos.MeetingView, error) {
	if err := s.meetings.Update(ctx, id, fields); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("meeting not found"), "update meeting")
	}
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("meeting not found"), "fetch meeting")
	}
	v := s.toView(ctx, m)
	return &v, nil
}

// Delete removes the meeting and the attendance marked against it.
func (s *MeetingService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.attendance.WithTx(tx).DeleteForMeeting(ctx, id); err != nil {
			return err
		}
		return s.meetings.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, apperr.NotFound("meeting not found"), "delete meeting")
	}
	logging.Info("Meeting deleted", "meeting_id", id, "by", caller.UserID)
	return nil
}

func (s *MeetingService) List(ctx context.Context, caller auth.Caller) ([]dtos.MeetingView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.Meeting, error) {
		r, err := s.meetings.List(ctx)
		return r, apperr.Backend("list meetings", err)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dtos.MeetingView, len(rows))
	for i := range rows {
		out[i] = s.toView(ctx, &rows[i])
	}
	return out, nil
}

func (s *MeetingService) toView(ctx context.Context, m *gormModels.Meeting) dtos.MeetingView {
	return dtos.MeetingView{
		ID:          m.ID,
		Title:       m.Title,
		MeetingDate: m.MeetingDate,
		MeetingTime: m.MeetingTime,
		Location:    m.Location,
		Agenda:      m.Agenda,
		MomURL:      s.storage.resolvePtr(ctx, m.MomURL),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
