package services

import (
	"context"
	"errors"
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

type ActivityConfig struct {
	// EnforceCapacity turns the advisory capacity into a hard limit.
	EnforceCapacity bool
}

type ActivityService struct {
	db         *gorm.DB
	activities *repositories.ActivityRepository
	profiles   *repositories.ProfileRepository
	notifier   *NotificationService
	metrics    *metrics.MetricsRegistry
	cfg        ActivityConfig
}

func NewActivityService(db *gorm.DB, notifier *NotificationService, metricsReg *metrics.MetricsRegistry, cfg ActivityConfig) *ActivityService {
	return &ActivityService{
		db:         db,
		activities: repositories.NewActivityRepository(db),
		profiles:   repositories.NewProfileRepository(db),
		notifier:   notifier,
		metrics:    metricsReg,
		cfg:        cfg,
	}
}

func (s *ActivityService) Create(ctx context.Context, caller auth.Caller, req dtos.CreateActivityRequest) (*dtos.ActivityView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	trimPtr(&req.Description)
	trimPtr(&req.ActivityTime)
	trimPtr(&req.Location)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	a := gormModels.Activity{
		Name:                req.Name,
		Description:         req.Description,
		ActivityDate:        req.ActivityDate,
		ActivityTime:        req.ActivityTime,
		Location:            req.Location,
		Capacity:            req.Capacity,
		Status:              constants.ActivityUpcoming,
		RegistrationEnabled: true,
		CreatedBy:           caller.UserID,
	}
	if req.RegistrationEnabled != nil {
		a.RegistrationEnabled = *req.RegistrationEnabled
	}
	if err := s.activities.Create(ctx, &a); err != nil {
		return nil, apperr.Backend("create activity", err)
	}
	logging.Info("Activity created", "activity_id", a.ID, "date", a.ActivityDate, "by", caller.UserID)

	v := toActivityView(&a, 0, false)
	return &v, nil
}

func (s *ActivityService) Update(ctx context.Context, caller auth.Caller, id string, req dtos.UpdateActivityRequest) (*dtos.ActivityView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
		fields["name"] = name
	}
	if req.ActivityDate != nil {
		fields["activity_date"] = *req.ActivityDate
	}
	for col, v := range map[string]*string{
		"description":   req.Description,
		"activity_time": req.ActivityTime,
		"location":      req.Location,
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
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.RegistrationEnabled != nil {
		fields["registration_enabled"] = *req.RegistrationEnabled
	}
	if req.Status != nil {
		fields["status"] = constants.ActivityStatus(*req.Status)
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	if err := s.activities.Update(ctx, id, fields); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("activity not found"), "update activity")
	}
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("activity not found"), "fetch activity")
	}
	count, err := s.activities.CountRegistrations(ctx, id)
	if err != nil {
		return nil, apperr.Backend("count registrations", err)
	}
	registered, err := s.activities.IsRegistered(ctx, id, caller.UserID)
	if err != nil {
		return nil, apperr.Backend("check registration", err)
	}
	v := toActivityView(a, count, registered)
	return &v, nil
}

// Delete removes the activity together with its registrations and attendance.
func (s *ActivityService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	if err := s.activities.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("activity not found"), "delete activity")
	}
	logging.Info("Activity deleted", "activity_id", id, "by", caller.UserID)
	return nil
}

// List returns all activities by date with live registration counts. Anonymous
// callers see is_registered=false everywhere.
func (s *ActivityService) List(ctx context.Context, caller auth.Caller) ([]dtos.ActivityView, error) {
	activities, err := readWithRetry(ctx, func() ([]gormModels.Activity, error) {
		a, err := s.activities.List(ctx)
		return a, apperr.Backend("list activities", err)
	})
	if err != nil {
		return nil, err
	}
	counts, err := s.activities.RegistrationCounts(ctx)
	if err != nil {
		return nil, apperr.Backend("count registrations", err)
	}
	mine := map[string]bool{}
	if caller.IsAuthenticated() {
		if mine, err = s.activities.RegisteredActivityIDs(ctx, caller.UserID); err != nil {
			return nil, apperr.Backend("list registrations", err)
		}
	}

	out := make([]dtos.ActivityView, len(activities))
	for i := range activities {
		out[i] = toActivityView(&activities[i], counts[activities[i].ID], mine[activities[i].ID])
	}
	return out, nil
}

// Register signs the caller up for an activity. The pair is unique; a lost race
// against a concurrent registration surfaces as AlreadyRegistered.
func (s *ActivityService) Register(ctx context.Context, caller auth.Caller, activityID string) (*dtos.RegistrationView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}

	var reg *gormModels.ActivityRegistration
	var activityName string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.activities.WithTx(tx)
		a, err := repo.GetForUpdate(ctx, activityID)
		if err != nil {
			return notFoundOr(err, apperr.NotFound("activity not found"), "fetch activity")
		}
		activityName = a.Name
		if !a.RegistrationEnabled || a.Status != constants.ActivityUpcoming {
			return apperr.Conflict(apperr.CodeRegistrationClosed, "registration is closed for this activity")
		}
		already, err := repo.IsRegistered(ctx, activityID, caller.UserID)
		if err != nil {
			return apperr.Backend("check registration", err)
		}
		if already {
			return apperr.Conflict(apperr.CodeAlreadyRegistered, "already registered for this activity")
		}
		if s.cfg.EnforceCapacity && a.Capacity != nil {
			n, err := repo.CountRegistrations(ctx, activityID)
			if err != nil {
				return apperr.Backend("count registrations", err)
			}
			if n >= int64(*a.Capacity) {
				return apperr.Conflict(apperr.CodeActivityFull, "activity is full")
			}
		}
		reg, err = repo.Register(ctx, activityID, caller.UserID)
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperr.Conflict(apperr.CodeAlreadyRegistered, "already registered for this activity")
		}
		return apperr.Backend("register for activity", err)
	})
	if err != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(apperr.CodeOf(err)).Inc()
		return nil, err
	}
	s.metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	logging.Info("Registered for activity", "activity_id", activityID, "user_id", caller.UserID)
	s.notifier.notifyQuietly(ctx, caller.UserID, constants.NotificationActivity,
		"Registration confirmed", "You are registered for "+activityName+".")

	return &dtos.RegistrationView{
		ID:           reg.ID,
		ActivityID:   reg.ActivityID,
		UserID:       reg.UserID,
		RegisteredAt: reg.RegisteredAt,
	}, nil
}

// Unregister is idempotent: removing a registration that does not exist succeeds.
func (s *ActivityService) Unregister(ctx context.Context, caller auth.Caller, activityID string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	removed, err := s.activities.Unregister(ctx, activityID, caller.UserID)
	if err != nil {
		return apperr.Backend("unregister from activity", err)
	}
	if removed {
		logging.Info("Unregistered from activity", "activity_id", activityID, "user_id", caller.UserID)
	}
	return nil
}

func (s *ActivityService) RegisteredCount(ctx context.Context, activityID string) (int64, error) {
	n, err := s.activities.CountRegistrations(ctx, activityID)
	if err != nil {
		return 0, apperr.Backend("count registrations", err)
	}
	return n, nil
}

func (s *ActivityService) IsRegistered(ctx context.Context, activityID, userID string) (bool, error) {
	ok, err := s.activities.IsRegistered(ctx, activityID, userID)
	if err != nil {
		return false, apperr.Backend("check registration", err)
	}
	return ok, nil
}

// ListRegistrations is the roster of an activity with member names.
func (s *ActivityService) ListRegistrations(ctx context.Context, caller auth.Caller, activityID string) ([]dtos.RegistrationView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	exists, err := s.activities.Exists(ctx, activityID)
	if err != nil {
		return nil, apperr.Backend("check activity", err)
	}
	if !exists {
		return nil, apperr.NotFound("activity not found")
	}
	regs, err := s.activities.ListRegistrations(ctx, activityID)
	if err != nil {
		return nil, apperr.Backend("list registrations", err)
	}
	profiles, err := s.profiles.MapByUserIDs(ctx, uniqueUserIDs(regs, func(r gormModels.ActivityRegistration) string { return r.UserID }))
	if err != nil {
		return nil, apperr.Backend("load members", err)
	}

	out := make([]dtos.RegistrationView, len(regs))
	for i, r := range regs {
		who := identityOf(profiles, r.UserID)
		out[i] = dtos.RegistrationView{
			ID:           r.ID,
			ActivityID:   r.ActivityID,
			UserID:       r.UserID,
			MemberName:   who.Name,
			MemberUID:    who.UID,
			RegisteredAt: r.RegisteredAt,
		}
	}
	return out, nil
}

func toActivityView(a *gormModels.Activity, count int64, registered bool) dtos.ActivityView {
	return dtos.ActivityView{
		ID:                  a.ID,
		Name:                a.Name,
		Description:         a.Description,
		ActivityDate:        a.ActivityDate,
		ActivityTime:        a.ActivityTime,
		Location:            a.Location,
		Status:              string(a.Status),
		RegistrationEnabled: a.RegistrationEnabled,
		Capacity:            a.Capacity,
		CreatedBy:           a.CreatedBy,
		CreatedAt:           a.CreatedAt,
		RegisteredCount:     count,
		IsRegistered:        registered,
	}
}
