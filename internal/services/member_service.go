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
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"
	"bsg-portal/registry/internal/providers"

	"gorm.io/gorm"
)

// MemberService is the member directory: profile reads and admin edits.
type MemberService struct {
	db         *gorm.DB
	profiles   *repositories.ProfileRepository
	roles      *repositories.UserRoleRepository
	activities *repositories.ActivityRepository
	attendance *repositories.AttendanceRepository
	inventory  *repositories.InventoryRepository
	leaves     *repositories.LeaveRequestRepository
	certs      *repositories.CertificateRepository
	notes      *repositories.NotificationRepository
	provider   providers.AuthProvider
	identity   *IdentityService
	storage    *StorageService
}

func NewMemberService(
	db *gorm.DB,
	provider providers.AuthProvider,
	identity *IdentityService,
	storage *StorageService,
) *MemberService {
	return &MemberService{
		db:         db,
		profiles:   repositories.NewProfileRepository(db),
		roles:      repositories.NewUserRoleRepository(db),
		activities: repositories.NewActivityRepository(db),
		attendance: repositories.NewAttendanceRepository(db),
		inventory:  repositories.NewInventoryRepository(db),
		leaves:     repositories.NewLeaveRequestRepository(db),
		certs:      repositories.NewCertificateRepository(db),
		notes:      repositories.NewNotificationRepository(db),
		provider:   provider,
		identity:   identity,
		storage:    storage,
	}
}

// ListMembers returns every member, newest first, with their display role.
func (s *MemberService) ListMembers(ctx context.Context, caller auth.Caller) ([]dtos.MemberView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	profiles, err := readWithRetry(ctx, func() ([]gormModels.Profile, error) {
		p, err := s.profiles.List(ctx)
		return p, apperr.Backend("list members", err)
	})
	if err != nil {
		return nil, err
	}
	ids := uniqueUserIDs(profiles, func(p gormModels.Profile) string { return p.UserID })
	roleSets, err := s.roles.RolesForUsers(ctx, ids)
	if err != nil {
		return nil, apperr.Backend("load member roles", err)
	}

	out := make([]dtos.MemberView, 0, len(profiles))
	for i := range profiles {
		out = append(out, s.toView(ctx, &profiles[i], roleSets[profiles[i].UserID]))
	}
	return out, nil
}

// GetMember returns one profile by id, to the member themself or to admins and coordinators.
func (s *MemberService) GetMember(ctx context.Context, caller auth.Caller, id string) (*dtos.MemberView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
	}
	if err := requireSelfOrAdminOrCoordinator(caller, p.UserID); err != nil {
		return nil, err
	}
	return s.viewWithRoles(ctx, p)
}

func (s *MemberService) GetMyProfile(ctx context.Context, caller auth.Caller) (*dtos.MemberView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("profile not found"), "fetch profile")
	}
	return s.viewWithRoles(ctx, p)
}

// UpdateMember applies a partial update. An empty string clears an optional field;
// uid and user id cannot be changed.
func (s *MemberService) UpdateMember(ctx context.Context, caller auth.Caller, id string, req dtos.UpdateMemberRequest) (*dtos.MemberView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	for col, v := range map[string]*string{"first_name": req.FirstName, "last_name": req.LastName} {
		if v == nil {
			continue
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return nil, apperr.Validation("%s must not be empty", col)
		}
		fields[col] = trimmed
	}
	in := req.MemberProfileInput
	for col, v := range map[string]*string{
		"middle_name":            in.MiddleName,
		"gender":                 in.Gender,
		"date_of_birth":          in.DateOfBirth,
		"course_duration":        in.CourseDuration,
		"college_name":           in.CollegeName,
		"enrollment_number":      in.EnrollmentNumber,
		"class_coordinator_name": in.ClassCoordinatorName,
		"hod_name":               in.HODName,
		"principal_name":         in.PrincipalName,
		"whatsapp_number":        in.WhatsappNumber,
		"aadhaar_number":         in.AadhaarNumber,
		"blood_group":            in.BloodGroup,
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
	if in.CurrentSemester != nil {
		fields["current_semester"] = *in.CurrentSemester
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	if err := s.profiles.Update(ctx, id, fields); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("member not found"), "update member")
	}
	logging.Info("Member updated", "profile_id", id, "fields", len(fields), "by", caller.UserID)
	return s.GetMember(ctx, caller, id)
}

func (s *MemberService) SetStatus(ctx context.Context, caller auth.Caller, id string, status constants.MemberStatus) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	if !status.Valid() {
		return apperr.Validation("status must be active or inactive")
	}
	if err := s.profiles.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return notFoundOr(err, apperr.NotFound("member not found"), "set member status")
	}
	logging.Info("Member status changed", "profile_id", id, "status", status, "by", caller.UserID)
	return nil
}

// ToggleStatus flips active and inactive and returns the new status.
func (s *MemberService) ToggleStatus(ctx context.Context, caller auth.Caller, id string) (constants.MemberStatus, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return "", err
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return "", notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
	}
	next := constants.MemberInactive
	if p.Status == constants.MemberInactive {
		next = constants.MemberActive
	}
	if err := s.SetStatus(ctx, caller, id, next); err != nil {
		return "", err
	}
	return next, nil
}

// SetProfilePhoto stores a blob reference for the member's photo.
func (s *MemberService) SetProfilePhoto(ctx context.Context, caller auth.Caller, id, ref string) (*dtos.MemberView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperr.Validation("profile_photo_url is required")
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
	}
	if err := requireSelfOrAdminOrCoordinator(caller, p.UserID); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, id, map[string]interface{}{"profile_photo_url": ref}); err != nil {
		return nil, notFoundOr(err, apperr.NotFound("member not found"), "set profile photo")
	}
	p.ProfilePhotoURL = &ref
	return s.viewWithRoles(ctx, p)
}

// DeleteMember removes the profile, roles and the member's records in one
// transaction, then asks the auth provider to drop the login. Members holding
// unreturned inventory cannot be deleted.
func (s *MemberService) DeleteMember(ctx context.Context, caller auth.Caller, id string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
	}
	if caller.Owns(p.UserID) {
		return apperr.Validation("you cannot delete your own account")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv := s.inventory.WithTx(tx)
		active, err := inv.CountActiveForUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if active > 0 {
			return apperr.Conflict(apperr.CodeActiveAssignments, "member still holds inventory; return it first")
		}
		steps := []func() error{
			func() error { return inv.DeleteAssignmentsForUser(ctx, p.UserID) },
			func() error { return s.activities.WithTx(tx).DeleteRegistrationsForUser(ctx, p.UserID) },
			func() error { return s.attendance.WithTx(tx).DeleteForUser(ctx, p.UserID) },
			func() error { return s.leaves.WithTx(tx).DeleteForUser(ctx, p.UserID) },
			func() error { return s.certs.WithTx(tx).DeleteForUser(ctx, p.UserID) },
			func() error { return s.notes.WithTx(tx).DeleteForUser(ctx, p.UserID) },
			func() error { return s.roles.WithTx(tx).DeleteAllFor(ctx, p.UserID) },
			func() error { return s.profiles.WithTx(tx).Delete(ctx, p.ID) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, apperr.NotFound("member not found"), "delete member")
	}

	s.identity.invalidateRoles(ctx, p.UserID)
	if err := s.provider.DeleteUser(ctx, p.UserID); err != nil && !errors.Is(err, providers.ErrUserNotFound) {
		logging.Error("Failed to delete login for removed member", "user_id", p.UserID, "uid", p.UID, "error", err)
	}
	logging.Info("Member deleted", "uid", p.UID, "user_id", p.UserID, "by", caller.UserID)
	return nil
}

func (s *MemberService) viewWithRoles(ctx context.Context, p *gormModels.Profile) (*dtos.MemberView, error) {
	roles, err := s.identity.RolesOf(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	v := s.toView(ctx, p, roles)
	return &v, nil
}

func (s *MemberService) toView(ctx context.Context, p *gormModels.Profile, roles []constants.Role) dtos.MemberView {
	roleNames := make([]string, len(roles))
	for i, r := range roles {
		roleNames[i] = string(r)
	}
	return dtos.MemberView{
		ID:                   p.ID,
		UserID:               p.UserID,
		UID:                  p.UID,
		FirstName:            p.FirstName,
		MiddleName:           p.MiddleName,
		LastName:             p.LastName,
		FullName:             p.FullName(),
		Gender:               p.Gender,
		DateOfBirth:          p.DateOfBirth,
		CourseDuration:       p.CourseDuration,
		CollegeName:          p.CollegeName,
		CurrentSemester:      p.CurrentSemester,
		EnrollmentNumber:     p.EnrollmentNumber,
		ClassCoordinatorName: p.ClassCoordinatorName,
		HODName:              p.HODName,
		PrincipalName:        p.PrincipalName,
		WhatsappNumber:       p.WhatsappNumber,
		AadhaarNumber:        p.AadhaarNumber,
		BloodGroup:           p.BloodGroup,
		ProfilePhotoURL:      s.storage.resolvePtr(ctx, p.ProfilePhotoURL),
		Status:               string(p.Status),
		Role:                 string(s.identity.DisplayRole(roles)),
		Roles:                roleNames,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
