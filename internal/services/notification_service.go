package services

import (
	"context"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type NotificationService struct {
	notes *repositories.NotificationRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{notes: repositories.NewNotificationRepository(db)}
}

// Notify stores a notification for userID. Callers treat failures as
// non-fatal; the triggering write has already happened.
func (s *NotificationService) Notify(ctx context.Context, userID string, kind constants.NotificationType, title, message string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation("user_id is required")
	}
	n := gormModels.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   truncate(title, 200),
		Message: truncate(message, 1000),
	}
	if err := s.notes.Create(ctx, &n); err != nil {
		return apperr.Backend("create notification", err)
	}
	return nil
}

// notifyQuietly logs instead of failing the caller's operation.
func (s *NotificationService) notifyQuietly(ctx context.Context, userID string, kind constants.NotificationType, title, message string) {
	if s == nil {
		return
	}
	if err := s.Notify(ctx, userID, kind, title, message); err != nil {
		logging.Warn("Failed to store notification", "user_id", userID, "type", kind, "error", err)
	}
}

func (s *NotificationService) ListMine(ctx context.Context, caller auth.Caller) ([]dtos.NotificationView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.Notification, error) {
		n, err := s.notes.ListByUser(ctx, caller.UserID)
		return n, apperr.Backend("list notifications", err)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dtos.NotificationView, len(rows))
	for i, n := range rows {
		out[i] = dtos.NotificationView{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if err := s.notes.MarkRead(ctx, id, caller.UserID); err != nil {
		return notFoundOr(err, apperr.NotFound("notification not found"), "mark notification read")
	}
	return nil
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, caller auth.Caller) (int64, error) {
	if err := requireAuthenticated(caller); err != nil {
		return 0, err
	}
	n, err := s.notes.MarkAllRead(ctx, caller.UserID)
	if err != nil {
		return 0, apperr.Backend("mark notifications read", err)
	}
	return n, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
