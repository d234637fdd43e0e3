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
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type AnnouncementService struct {
	announcements *repositories.AnnouncementRepository
	storage       *StorageService
}

func NewAnnouncementService(db *gorm.DB, storage *StorageService) *AnnouncementService {
	return &AnnouncementService{
		announcements: repositories.NewAnnouncementRepository(db),
		storage:       storage,
	}
}

func (s *AnnouncementService) Create(ctx context.Context, caller auth.Caller, req dtos.CreateAnnouncementRequest) (*dtos.AnnouncementView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	trimPtr(&req.Importance)
	trimPtr(&req.AttachmentURL)
	trimPtr(&req.ExpiryDate)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	a := gormModels.Announcement{
		Title:         req.Title,
		Content:       req.Content,
		Importance:    constants.ImportanceNormal,
		AttachmentURL: req.AttachmentURL,
		ExpiryDate:    req.ExpiryDate,
		CreatedBy:     caller.UserID,
	}
	if req.Importance != nil {
		a.Importance = constants.Importance(*req.Importance)
	}
	if err := s.announcements.Create(ctx, &a); err != nil {
		return nil, apperr.Backend("create announcement", err)
	}
	logging.Info("Announcement posted", "announcement_id", a.ID, "importance", a.Importance, "by", caller.UserID)
	v := s.toView(ctx, &a)
	return &v, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("announcement not found"), "delete announcement")
	}
	return nil
}

// ListCurrent hides announcements whose expiry date is before now's calendar day.
func (s *AnnouncementService) ListCurrent(ctx context.Context, now time.Time) ([]dtos.AnnouncementView, error) {
	today := now.Format(constants.DateLayout)
	rows, err := readWithRetry(ctx, func() ([]gormModels.Announcement, error) {
		r, err := s.announcements.ListCurrent(ctx, today)
		return r, apperr.Backend("list announcements", err)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dtos.AnnouncementView, len(rows))
	for i := range rows {
		out[i] = s.toView(ctx, &rows[i])
	}
	return out, nil
}

func (s *AnnouncementService) toView(ctx context.Context, a *gormModels.Announcement) dtos.AnnouncementView {
	return dtos.AnnouncementView{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		Importance:    string(a.Importance),
		AttachmentURL: s.storage.resolvePtr(ctx, a.AttachmentURL),
		ExpiryDate:    a.ExpiryDate,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
}
