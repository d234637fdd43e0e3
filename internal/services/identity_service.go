package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"
	"bsg-portal/registry/internal/providers"

	"gorm.io/gorm"
)

const (
	passwordAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	passwordLength   = 8
	// passwordSuffix satisfies provider complexity rules.
	passwordSuffix = "A1!"
	roleCacheTTL   = 10 * time.Minute
)

type IdentityConfig struct {
	LoginDomain    string
	RolePrecedence []constants.Role
}

// IdentityService issues member identities and answers role questions.
type IdentityService struct {
	db       *gorm.DB
	profiles *repositories.ProfileRepository
	roles    *repositories.UserRoleRepository
	counters *repositories.UIDCounterRepository
	provider providers.AuthProvider
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
	cfg      IdentityConfig
	random   io.Reader
}

func NewIdentityService(
	db *gorm.DB,
	provider providers.AuthProvider,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
	cfg IdentityConfig,
) *IdentityService {
	if cfg.LoginDomain == "" {
		cfg.LoginDomain = "bsg.local"
	}
	if len(cfg.RolePrecedence) == 0 {
		cfg.RolePrecedence = constants.AllRoles
	}
	return &IdentityService{
		db:       db,
		profiles: repositories.NewProfileRepository(db),
		roles:    repositories.NewUserRoleRepository(db),
		counters: repositories.NewUIDCounterRepository(db),
		provider: provider,
		cache:    cache,
		metrics:  metricsReg,
		cfg:      cfg,
		random:   rand.Reader,
	}
}

// LoginForUID maps a member uid to the synthetic login the auth provider knows.
func (s *IdentityService) LoginForUID(uid string) string {
	return strings.ToLower(strings.TrimSpace(uid)) + "@" + s.cfg.LoginDomain
}

// FormatUID renders a counter value as a member uid.
func FormatUID(n int64) string {
	return fmt.Sprintf("%s%03d", constants.UIDPrefix, n)
}

// IssueMember allocates a uid, provisions a login and stores the profile with
// its role. The generated password is only ever returned here.
func (s *IdentityService) IssueMember(ctx context.Context, caller auth.Caller, req dtos.IssueMemberRequest) (*dtos.IssuedMember, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	trimProfileInput(&req.MemberProfileInput)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	role := constants.RoleMember
	if req.Role != nil {
		r, err := constants.ParseRole(*req.Role)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		role = r
	}
	if role == constants.RoleAdmin && !caller.IsAdmin() {
		return nil, apperr.Forbidden(constants.MsgAdminOnly)
	}

	uid, err := s.allocateUID(ctx)
	if err != nil {
		return nil, err
	}
	login := s.LoginForUID(uid)
	password, err := s.generatePassword()
	if err != nil {
		return nil, apperr.AuthProvisioning(err)
	}

	authUser, err := s.provider.SignUp(ctx, login, password, map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	})
	if err != nil {
		if errors.Is(err, providers.ErrEmailTaken) {
			return nil, apperr.Conflict(apperr.CodeDuplicateUID, "uid "+uid+" already has a login")
		}
		logging.Error("Failed to provision login", "uid", uid, "error", err)
		return nil, apperr.AuthProvisioning(err)
	}

	profile := gormModels.Profile{
		UserID:    authUser.ID,
		UID:       uid,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    constants.MemberActive,
	}
	applyProfileInput(&profile, req.MemberProfileInput)
	if profile.CollegeName == nil {
		college := constants.DefaultCollegeName
		profile.CollegeName = &college
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profiles.WithTx(tx).Create(ctx, &profile); err != nil {
			return err
		}
		return s.roles.WithTx(tx).Add(ctx, authUser.ID, role)
	})
	if err != nil {
		// Roll the login back so no identity exists without a profile.
		if delErr := s.provider.DeleteUser(ctx, authUser.ID); delErr != nil {
			logging.Error("Failed to remove orphaned login", "uid", uid, "user_id", authUser.ID, "error", delErr)
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(apperr.CodeDuplicateUID, "uid "+uid+" is already taken")
		}
		return nil, apperr.Backend("create member profile", err)
	}

	s.metrics.MembersIssuedTotal.Inc()
	logging.Info("Member issued", "uid", uid, "user_id", authUser.ID, "role", role, "issued_by", caller.UserID)

	return &dtos.IssuedMember{
		UserID:   authUser.ID,
		UID:      uid,
		Login:    login,
		Password: password,
		Role:     string(role),
	}, nil
}

func (s *IdentityService) allocateUID(ctx context.Context) (string, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = s.counters.WithTx(tx).Next(ctx, constants.UIDCounterName)
		return err
	})
	if err != nil {
		return "", apperr.Backend("allocate uid", err)
	}
	return FormatUID(n), nil
}

func (s *IdentityService) generatePassword() (string, error) {
	var b strings.Builder
	base := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < passwordLength; i++ {
		idx, err := rand.Int(s.random, base)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b.WriteByte(passwordAlphabet[idx.Int64()])
	}
	b.WriteString(passwordSuffix)
	return b.String(), nil
}

// ResolveLoginByUID signs a member in by uid. Unknown uids and wrong passwords
// fail identically.
func (s *IdentityService) ResolveLoginByUID(ctx context.Context, uid, password string) (*providers.AuthSession, error) {
	uid = strings.ToUpper(strings.TrimSpace(uid))
	if uid == "" || password == "" {
		s.metrics.LoginAttemptsTotal.WithLabelValues("uid", "invalid").Inc()
		return nil, apperr.InvalidCredentials()
	}

	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.LoginAttemptsTotal.WithLabelValues("uid", "invalid").Inc()
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.Backend("look up uid", err)
	}

	sess, err := s.signIn(ctx, s.LoginForUID(profile.UID), password, "uid")
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SignIn signs in with the raw provider login.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*providers.AuthSession, error) {
	return s.signIn(ctx, strings.TrimSpace(email), password, "email")
}

func (s *IdentityService) signIn(ctx context.Context, login, password, method string) (*providers.AuthSession, error) {
	sess, err := s.provider.SignInWithPassword(ctx, login, password)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidCredentials) {
			s.metrics.LoginAttemptsTotal.WithLabelValues(method, "invalid").Inc()
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.Backend("sign in", err)
	}
	s.metrics.LoginAttemptsTotal.WithLabelValues(method, "success").Inc()
	return sess, nil
}

func (s *IdentityService) SignOut(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		if errors.Is(err, providers.ErrInvalidSession) {
			return apperr.NotAuthenticated()
		}
		return apperr.Backend("sign out", err)
	}
	return nil
}

// RefreshSession extends the caller's session and hands back a new token.
func (s *IdentityService) RefreshSession(ctx context.Context, accessToken string) (*providers.AuthSession, error) {
	sess, err := s.provider.RefreshSession(ctx, accessToken)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidSession) {
			return nil, apperr.NotAuthenticated()
		}
		return nil, apperr.Backend("refresh session", err)
	}
	return sess, nil
}

// Authenticate resolves a bearer token to a request caller.
func (s *IdentityService) Authenticate(ctx context.Context, accessToken string) (auth.Caller, error) {
	sess, err := s.provider.GetSession(ctx, accessToken)
	if err != nil {
		if errors.Is(err, providers.ErrInvalidSession) {
			return auth.Caller{}, apperr.NotAuthenticated()
		}
		return auth.Caller{}, apperr.Backend("resolve session", err)
	}
	roles, err := s.RolesOf(ctx, sess.User.ID)
	if err != nil {
		return auth.Caller{}, err
	}
	return auth.Caller{UserID: sess.User.ID, Roles: roles, SessionID: sess.SessionID, Source: "JWT"}, nil
}

// RolesOf returns the user's role set, served from cache when possible.
func (s *IdentityService) RolesOf(ctx context.Context, userID string) ([]constants.Role, error) {
	key := string(constants.CachePrefixRoles) + userID
	if val, found := s.cache.Get(ctx, key); found {
		s.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixRoles)).Inc()
		return decodeRoles(val), nil
	}
	s.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixRoles)).Inc()

	roles, err := readWithRetry(ctx, func() ([]constants.Role, error) {
		r, err := s.roles.RolesOf(ctx, userID)
		return r, apperr.Backend("fetch roles", err)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, encodeRoles(roles), roleCacheTTL)
	return roles, nil
}

func (s *IdentityService) HasRole(ctx context.Context, userID string, role constants.Role) (bool, error) {
	roles, err := s.RolesOf(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *IdentityService) IsAdminOrCoordinator(ctx context.Context, userID string) (bool, error) {
	roles, err := s.RolesOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return auth.Caller{UserID: userID, Roles: roles}.IsAdminOrCoordinator(), nil
}

// AssignRole adds a role to a member's set. Granting a held role is a no-op.
func (s *IdentityService) AssignRole(ctx context.Context, caller auth.Caller, userID string, role constants.Role) error {
	if err := s.requireRoleAdmin(ctx, caller, userID, role); err != nil {
		return err
	}
	err := s.roles.Add(ctx, userID, role)
	if err != nil && !errors.Is(err, repositories.ErrDuplicate) {
		return apperr.Backend("assign role", err)
	}
	s.invalidateRoles(ctx, userID)
	logging.Info("Role assigned", "user_id", userID, "role", role, "by", caller.UserID)
	return nil
}

// RevokeRole removes a role. A member left without roles displays as member.
func (s *IdentityService) RevokeRole(ctx context.Context, caller auth.Caller, userID string, role constants.Role) error {
	if err := s.requireRoleAdmin(ctx, caller, userID, role); err != nil {
		return err
	}
	if caller.Owns(userID) && role == constants.RoleAdmin {
		return apperr.Validation("admins cannot revoke their own admin role")
	}
	err := s.roles.Remove(ctx, userID, role)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return apperr.Backend("revoke role", err)
	}
	s.invalidateRoles(ctx, userID)
	logging.Info("Role revoked", "user_id", userID, "role", role, "by", caller.UserID)
	return nil
}

func (s *IdentityService) requireRoleAdmin(ctx context.Context, caller auth.Caller, userID string, role constants.Role) error {
	if !caller.IsAuthenticated() {
		return apperr.NotAuthenticated()
	}
	if !caller.IsAdmin() {
		return apperr.Forbidden(constants.MsgAdminOnly)
	}
	if !role.Valid() {
		return apperr.Validation("unknown role %q", role)
	}
	if _, err := s.profiles.GetByUserID(ctx, userID); err != nil {
		return notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
	}
	return nil
}

func (s *IdentityService) invalidateRoles(ctx context.Context, userID string) {
	s.cache.Delete(ctx, string(constants.CachePrefixRoles)+userID)
}

// DisplayRole picks the highest-precedence role; an empty set displays as member.
func (s *IdentityService) DisplayRole(roles []constants.Role) constants.Role {
	return DisplayRole(s.cfg.RolePrecedence, roles)
}

func DisplayRole(precedence []constants.Role, roles []constants.Role) constants.Role {
	for _, candidate := range precedence {
		for _, r := range roles {
			if r == candidate {
				return candidate
			}
		}
	}
	return constants.RoleMember
}

func encodeRoles(roles []constants.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func decodeRoles(val string) []constants.Role {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	roles := make([]constants.Role, len(parts))
	for i, p := range parts {
		roles[i] = constants.Role(p)
	}
	return roles
}

func trimProfileInput(in *dtos.MemberProfileInput) {
	for _, p := range []**string{
		&in.MiddleName, &in.Gender, &in.DateOfBirth, &in.CourseDuration, &in.CollegeName,
		&in.EnrollmentNumber, &in.ClassCoordinatorName, &in.HODName, &in.PrincipalName,
		&in.WhatsappNumber, &in.AadhaarNumber, &in.BloodGroup,
	} {
		trimPtr(p)
	}
}

func applyProfileInput(p *gormModels.Profile, in dtos.MemberProfileInput) {
	p.MiddleName = in.MiddleName
	p.Gender = in.Gender
	p.DateOfBirth = in.DateOfBirth
	p.CourseDuration = in.CourseDuration
	p.CollegeName = in.CollegeName
	p.CurrentSemester = in.CurrentSemester
	p.EnrollmentNumber = in.EnrollmentNumber
	p.ClassCoordinatorName = in.ClassCoordinatorName
	p.HODName = in.HODName
	p.PrincipalName = in.PrincipalName
	p.WhatsappNumber = in.WhatsappNumber
	p.AadhaarNumber = in.AadhaarNumber
	p.BloodGroup = in.BloodGroup
}

// WatchAuthState follows provider session events. A fresh sign in drops the
// cached role set so the new session sees current roles.
func (s *IdentityService) WatchAuthState() (unsubscribe func()) {
	return s.provider.OnAuthStateChange(func(change providers.AuthStateChange) {
		logging.Info("auth state changed", "event", string(change.Event), "user_id", change.UserID)
		if change.Event == providers.AuthEventSignedIn {
			s.invalidateRoles(context.Background(), change.UserID)
		}
	})
}
