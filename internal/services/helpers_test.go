package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/testdb"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"
	"bsg-portal/registry/internal/providers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockAuthProvider keeps logins in memory. Set a func field to override a call.
type mockAuthProvider struct {
	mu        sync.Mutex
	logins    map[string]providers.AuthUser
	passwords map[string]string
	deleted   []string

	signUpFunc     func(ctx context.Context, email, password string, metadata map[string]string) (*providers.AuthUser, error)
	deleteUserFunc func(ctx context.Context, userID string) error
}

func newMockAuthProvider() *mockAuthProvider {
	return &mockAuthProvider{
		logins:    make(map[string]providers.AuthUser),
		passwords: make(map[string]string),
	}
}

func (m *mockAuthProvider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*providers.AuthUser, error) {
	if m.signUpFunc != nil {
		return m.signUpFunc(ctx, email, password, metadata)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logins[email]; ok {
		return nil, providers.ErrEmailTaken
	}
	u := providers.AuthUser{ID: uuid.NewString(), Email: email, Metadata: metadata}
	m.logins[email] = u
	m.passwords[email] = password
	return &u, nil
}

func (m *mockAuthProvider) SignInWithPassword(_ context.Context, email, password string) (*providers.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.logins[email]
	if !ok || m.passwords[email] != password {
		return nil, providers.ErrInvalidCredentials
	}
	return &providers.AuthSession{
		AccessToken: "token-" + u.ID,
		ExpiresAt:   time.Now().Add(time.Hour),
		SessionID:   "sess-" + u.ID,
		User:        u,
	}, nil
}

func (m *mockAuthProvider) SignOut(context.Context, string) error { return nil }

func (m *mockAuthProvider) GetSession(_ context.Context, accessToken string) (*providers.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.logins {
		if accessToken == "token-"+u.ID {
			return &providers.AuthSession{AccessToken: accessToken, SessionID: "sess-" + u.ID, User: u}, nil
		}
	}
	return nil, providers.ErrInvalidSession
}

func (m *mockAuthProvider) RefreshSession(ctx context.Context, accessToken string) (*providers.AuthSession, error) {
	sess, err := m.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = time.Now().Add(time.Hour)
	return sess, nil
}

func (m *mockAuthProvider) DeleteUser(ctx context.Context, userID string) error {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, userID)
	for email, u := range m.logins {
		if u.ID == userID {
			delete(m.logins, email)
			return nil
		}
	}
	return providers.ErrUserNotFound
}

func (m *mockAuthProvider) OnAuthStateChange(func(providers.AuthStateChange)) func() {
	return func() {}
}

func (m *mockAuthProvider) deletedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

type mockBlobSigner struct {
	createSignedURLFunc func(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

func (m *mockBlobSigner) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if m.createSignedURLFunc != nil {
		return m.createSignedURLFunc(ctx, bucket, path, ttl)
	}
	return fmt.Sprintf("https://blobs.test/%s/%s?ttl=%d", bucket, path, int(ttl.Seconds())), nil
}

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db            *gorm.DB
	provider      *mockAuthProvider
	signer        *mockBlobSigner
	metrics       *metrics.MetricsRegistry
	identity      *IdentityService
	members       *MemberService
	notifications *NotificationService
	activities    *ActivityService
	attendance    *AttendanceService
	inventory     *InventoryService
	leaves        *LeaveService
	announcements *AnnouncementService
	meetings      *MeetingService
	certificates  *CertificateService
	dashboard     *DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.New(t)
	env := &testEnv{
		db:       db,
		provider: newMockAuthProvider(),
		signer:   &mockBlobSigner{},
		metrics:  metrics.Nop(),
	}
	clock := Clock(func() time.Time { return fixedNow })
	cache := common.NewCacheService(0, 60)
	storage := NewStorageService(env.signer)

	env.identity = NewIdentityService(db, env.provider, cache, env.metrics, IdentityConfig{})
	env.members = NewMemberService(db, env.provider, env.identity, storage)
	env.notifications = NewNotificationService(db)
	env.activities = NewActivityService(db, env.notifications, env.metrics, ActivityConfig{})
	env.attendance = NewAttendanceService(db, env.metrics, clock)
	env.inventory = NewInventoryService(db, env.metrics, clock)
	env.leaves = NewLeaveService(db, env.notifications, env.metrics, clock)
	env.announcements = NewAnnouncementService(db, storage)
	env.meetings = NewMeetingService(db, storage)
	env.certificates = NewCertificateService(db, env.notifications, storage)
	env.dashboard = NewDashboardService(testdb.SQLX(t, db), env.metrics, 10, clock)
	return env
}

var adminCaller = auth.Caller{UserID: "admin-user", Roles: []constants.Role{constants.RoleAdmin}, Source: "TEST"}

func coordinatorCaller() auth.Caller {
	return auth.Caller{UserID: "coord-user", Roles: []constants.Role{constants.RoleCoordinator}, Source: "TEST"}
}

func memberCaller(userID string) auth.Caller {
	return auth.Caller{UserID: userID, Roles: []constants.Role{constants.RoleMember}, Source: "TEST"}
}

// issue creates a member through the normal onboarding path.
func (e *testEnv) issue(t *testing.T, first, last string) *dtos.IssuedMember {
	t.Helper()
	issued, err := e.identity.IssueMember(context.Background(), adminCaller, dtos.IssueMemberRequest{
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return issued
}

func (e *testEnv) profileID(t *testing.T, uid string) string {
	t.Helper()
	p, err := e.identity.profiles.GetByUID(context.Background(), strings.ToUpper(uid))
	require.NoError(t, err)
	return p.ID
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
