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

type CertificateService struct {
	certs    *repositories.CertificateRepository
	profiles *repositories.ProfileRepository
	notifier *NotificationService
	storage  *StorageService
}

func NewCertificateService(db *gorm.DB, notifier *NotificationService, storage *StorageService) *CertificateService {
	return &CertificateService{
		certs:    repositories.NewCertificateRepository(db),
		profiles: repositories.NewProfileRepository(db),
		notifier: notifier,
		storage:  storage,
	}
}

// Issue records a certificate for an existing member and notifies them.
func (s *CertificateService) Issue(ctx context.Context, caller auth.Caller, req dtos.IssueCertificateRequest) (*dtos.CertificateView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.EventName = strings.TrimSpace(req.EventName)
	req.UserID = strings.TrimSpace(req.UserID)
	trimPtr(&req.CertificateURL)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	recipient, err := s.profiles.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("recipient not found"), "fetch recipient")
	}

	c := gormModels.Certificate{
		Name:           req.Name,
		EventName:      req.EventName,
		UserID:         req.UserID,
		IssueDate:      req.IssueDate,
		CertificateURL: req.CertificateURL,
		CreatedBy:      caller.UserID,
	}
	if err := s.certs.Create(ctx, &c); err != nil {
		return nil, apperr.Backend("issue certificate", err)
	}
	logging.Info("Certificate issued", "certificate_id", c.ID, "uid", recipient.UID, "event", c.EventName, "by", caller.UserID)
	s.notifier.notifyQuietly(ctx, c.UserID, constants.NotificationCertificate,
		"New certificate", "You received \""+c.Name+"\" for "+c.EventName+".")

	v := s.toView(ctx, &c, memberIdentity{Name: recipient.FullName(), UID: recipient.UID})
	return &v, nil
}

func (s *CertificateService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	if err := s.certs.Delete(ctx, id); err != nil {
		return notFoundOr(err, apperr.NotFound("certificate not found"), "delete certificate")
	}
	return nil
}

// List returns all certificates, or one member's, to admins and coordinators.
// Everyone else only ever sees their own, whatever filter they pass.
func (s *CertificateService) List(ctx context.Context, caller auth.Caller, userID string) ([]dtos.CertificateView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	filter := strings.TrimSpace(userID)
	if !caller.IsAdminOrCoordinator() {
		filter = caller.UserID
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.Certificate, error) {
		r, err := s.certs.List(ctx, filter)
		return r, apperr.Backend("list certificates", err)
	})
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.MapByUserIDs(ctx, uniqueUserIDs(rows, func(c gormModels.Certificate) string { return c.UserID }))
	if err != nil {
		return nil, apperr.Backend("load members", err)
	}
	out := make([]dtos.CertificateView, len(rows))
	for i := range rows {
		out[i] = s.toView(ctx, &rows[i], identityOf(profiles, rows[i].UserID))
	}
	return out, nil
}

func (s *CertificateService) toView(ctx context.Context, c *gormModels.Certificate, who memberIdentity) dtos.CertificateView {
	return dtos.CertificateView{
		ID:             c.ID,
		Name:           c.Name,
		EventName:      c.EventName,
		UserID:         c.UserID,
		RecipientName:  who.Name,
		RecipientUID:   who.UID,
		IssueDate:      c.IssueDate,
		CertificateURL: s.storage.resolvePtr(ctx, c.CertificateURL),
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
	}
}
