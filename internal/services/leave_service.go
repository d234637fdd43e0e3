package services

import (
	"context"
	"strings"
	"time"

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

type LeaveService struct {
	leaves   *repositories.LeaveRequestRepository
	profiles *repositories.ProfileRepository
	notifier *NotificationService
	metrics  *metrics.MetricsRegistry
	clock    Clock
}

func NewLeaveService(db *gorm.DB, notifier *NotificationService, metricsReg *metrics.MetricsRegistry, clock Clock) *LeaveService {
	return &LeaveService{
		leaves:   repositories.NewLeaveRequestRepository(db),
		profiles: repositories.NewProfileRepository(db),
		notifier: notifier,
		metrics:  metricsReg,
		clock:    clock,
	}
}

func (s *LeaveService) Submit(ctx context.Context, caller auth.Caller, req dtos.LeaveRequestInput) (*dtos.LeaveRequestView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	from, _ := time.Parse(constants.DateLayout, req.FromDate)
	to, _ := time.Parse(constants.DateLayout, req.ToDate)
	if from.After(to) {
		return nil, apperr.Validation("from_date must not be after to_date")
	}

	l := gormModels.LeaveRequest{
		UserID:   caller.UserID,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
		Reason:   req.Reason,
		Status:   constants.LeavePending,
	}
	if err := s.leaves.Create(ctx, &l); err != nil {
		return nil, apperr.Backend("create leave request", err)
	}
	logging.Info("Leave requested", "leave_id", l.ID, "user_id", caller.UserID, "from", l.FromDate, "to", l.ToDate)
	return s.view(ctx, &l)
}

// Review approves or rejects a pending request. Approved and rejected are
// terminal; reviewing them again fails.
func (s *LeaveService) Review(ctx context.Context, caller auth.Caller, id string, req dtos.ReviewLeaveRequest) (*dtos.LeaveRequestView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	trimPtr(&req.Comment)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	decision := constants.LeaveStatus(req.Decision)

	ok, err := s.leaves.Review(ctx, id, decision, req.Comment, caller.UserID, s.clock.now())
	if err != nil {
		return nil, apperr.Backend("review leave request", err)
	}
	l, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("leave request not found"), "fetch leave request")
	}
	if !ok {
		return nil, apperr.InvalidStateTransition(string(l.Status), string(decision))
	}

	s.metrics.LeaveReviewsTotal.WithLabelValues(string(decision)).Inc()
	logging.Info("Leave reviewed", "leave_id", id, "decision", decision, "by", caller.UserID)
	msg := "Your leave from " + l.FromDate + " to " + l.ToDate + " was " + string(decision) + "."
	if l.AdminComment != nil {
		msg += " Comment: " + *l.AdminComment
	}
	s.notifier.notifyQuietly(ctx, l.UserID, constants.NotificationLeave, "Leave request "+string(decision), msg)
	return s.view(ctx, l)
}

// ListVisibleTo returns every request to admins and coordinators and only the
// caller's own requests to everyone else.
func (s *LeaveService) ListVisibleTo(ctx context.Context, caller auth.Caller) ([]dtos.LeaveRequestView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	owner := caller.UserID
	if caller.IsAdminOrCoordinator() {
		owner = ""
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.LeaveRequest, error) {
		r, err := s.leaves.List(ctx, owner)
		return r, apperr.Backend("list leave requests", err)
	})
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.MapByUserIDs(ctx, uniqueUserIDs(rows, func(l gormModels.LeaveRequest) string { return l.UserID }))
	if err != nil {
		return nil, apperr.Backend("load members", err)
	}
	out := make([]dtos.LeaveRequestView, len(rows))
	for i := range rows {
		out[i] = toLeaveView(&rows[i], identityOf(profiles, rows[i].UserID))
	}
	return out, nil
}

func (s *LeaveService) view(ctx context.Context, l *gormModels.LeaveRequest) (*dtos.LeaveRequestView, error) {
	profiles, err := s.profiles.MapByUserIDs(ctx, []string{l.UserID})
	if err != nil {
		return nil, apperr.Backend("load member", err)
	}
	v := toLeaveView(l, identityOf(profiles, l.UserID))
	return &v, nil
}

func toLeaveView(l *gormModels.LeaveRequest, who memberIdentity) dtos.LeaveRequestView {
	return dtos.LeaveRequestView{
		ID:           l.ID,
		UserID:       l.UserID,
		UserName:     who.Name,
		UserUID:      who.UID,
		FromDate:     l.FromDate,
		ToDate:       l.ToDate,
		Reason:       l.Reason,
		Status:       string(l.Status),
		AdminComment: l.AdminComment,
		ReviewedBy:   l.ReviewedBy,
		ReviewedAt:   l.ReviewedAt,
		CreatedAt:    l.CreatedAt,
	}
}
