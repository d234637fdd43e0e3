package providers

import (
	"context"
	"testing"
	"time"

	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/db/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthProvider(t *testing.T) *LocalAuthProvider {
	t.Helper()
	db := testdb.New(t)
	sessions := common.NewSessionService(common.NewCacheService(0, 60), time.Hour)
	return NewLocalAuthProvider(
		repositories.NewAuthUserRepository(db),
		sessions,
		[]byte("test-secret"),
	).WithBcryptCost(bcrypt.MinCost)
}

func TestLocalAuthProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newTestAuthProvider(t)

	var events []AuthStateChange
	unsubscribe := p.OnAuthStateChange(func(c AuthStateChange) { events = append(events, c) })

	user, err := p.SignUp(ctx, "BSG001@bsg.local", "secretA1!", map[string]string{"first_name": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "bsg001@bsg.local", user.Email)

	_, err = p.SignUp(ctx, "bsg001@bsg.local", "other", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = p.SignInWithPassword(ctx, "bsg001@bsg.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "wrong password")
	_, err = p.SignInWithPassword(ctx, "nobody@bsg.local", "secretA1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown login")

	sess, err := p.SignInWithPassword(ctx, "bsg001@bsg.local", "secretA1!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.User.ID)
	assert.Equal(t, "Asha", sess.User.Metadata["first_name"])

	got, err := p.GetSession(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.User.ID)

	require.NoError(t, p.SignOut(ctx, sess.AccessToken))
	_, err = p.GetSession(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidSession)

	require.Len(t, events, 2)
	assert.Equal(t, AuthEventSignedIn, events[0].Event)
	assert.Equal(t, AuthEventSignedOut, events[1].Event)

	unsubscribe()
	_, err = p.SignInWithPassword(ctx, "bsg001@bsg.local", "secretA1!")
	require.NoError(t, err)
	assert.Len(t, events, 2, "listener still called after unsubscribe")
}

func TestLocalAuthProvider_RejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	p := newTestAuthProvider(t)

	_, err := p.GetSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other := newTestAuthProvider(t)
	other.secret = []byte("different")
	_, err = other.SignUp(ctx, "x@bsg.local", "pw", nil)
	require.NoError(t, err)
	sess, err := other.SignInWithPassword(ctx, "x@bsg.local", "pw")
	require.NoError(t, err)

	_, err = p.GetSession(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidSession, "token signed elsewhere")
}

func TestLocalAuthProvider_DeleteUser(t *testing.T) {
	ctx := context.Background()
	p := newTestAuthProvider(t)

	user, err := p.SignUp(ctx, "bsg002@bsg.local", "pw", nil)
	require.NoError(t, err)
	require.NoError(t, p.DeleteUser(ctx, user.ID))

	assert.ErrorIs(t, p.DeleteUser(ctx, user.ID), ErrUserNotFound)
	_, err = p.SignInWithPassword(ctx, "bsg002@bsg.local", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "deleted login must not sign in")
}

func TestLocalAuthProvider_DeleteUserEndsSessions(t *testing.T) {
	ctx := context.Background()
	p := newTestAuthProvider(t)

	user, err := p.SignUp(ctx, "bsg003@bsg.local", "pw", nil)
	require.NoError(t, err)
	first, err := p.SignInWithPassword(ctx, "bsg003@bsg.local", "pw")
	require.NoError(t, err)
	second, err := p.SignInWithPassword(ctx, "bsg003@bsg.local", "pw")
	require.NoError(t, err)

	bystander, err := p.SignUp(ctx, "bsg004@bsg.local", "pw", nil)
	require.NoError(t, err)
	kept, err := p.SignInWithPassword(ctx, "bsg004@bsg.local", "pw")
	require.NoError(t, err)

	var events []AuthStateChange
	p.OnAuthStateChange(func(c AuthStateChange) { events = append(events, c) })

	require.NoError(t, p.DeleteUser(ctx, user.ID))

	for _, sess := range []*AuthSession{first, second} {
		_, err := p.GetSession(ctx, sess.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidSession)
		_, err = p.RefreshSession(ctx, sess.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidSession)
	}

	got, err := p.GetSession(ctx, kept.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, bystander.ID, got.User.ID)

	require.Len(t, events, 1)
	assert.Equal(t, AuthEventSignedOut, events[0].Event)
	assert.Equal(t, user.ID, events[0].UserID)
}

func TestLocalAuthProvider_RefreshSession(t *testing.T) {
	ctx := context.Background()
	p := newTestAuthProvider(t)

	user, err := p.SignUp(ctx, "bsg005@bsg.local", "pw", nil)
	require.NoError(t, err)
	sess, err := p.SignInWithPassword(ctx, "bsg005@bsg.local", "pw")
	require.NoError(t, err)

	refreshed, err := p.RefreshSession(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)
	assert.Equal(t, sess.SessionID, refreshed.SessionID)
	assert.False(t, refreshed.ExpiresAt.Before(sess.ExpiresAt))

	got, err := p.GetSession(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, refreshed.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	_, err = p.RefreshSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLocalBlobSigner_URLShape(t *testing.T) {
	signer := NewLocalBlobSigner("http://localhost:8080/", common.NewURLSignerService([]byte("k")))
	u, err := signer.CreateSignedURL(context.Background(), "avatars", "u-1/my photo.png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:8080/storage/v1/object/sign/avatars/u-1/my%20photo.png?token=")
}
