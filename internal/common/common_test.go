package common

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_GetOrSet(t *testing.T) {
	ctx := context.Background()
	c := NewCacheService(60, 120)

	calls := 0
	loader := func() (string, error) {
		calls++
		return "admin,core", nil
	}
	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "ROLES_u-1", time.Minute, loader)
		require.NoError(t, err)
		assert.Equal(t, "admin,core", got)
	}
	assert.Equal(t, 1, calls)

	c.Delete(ctx, "ROLES_u-1")
	_, found := c.Get(ctx, "ROLES_u-1")
	assert.False(t, found)

	_, err := c.GetOrSet(ctx, "k", time.Minute, func() (string, error) { return "", errors.New("db down") })
	assert.Error(t, err)
	_, found = c.Get(ctx, "k")
	assert.False(t, found, "failed loads must not be cached")
}

func TestSessionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(NewCacheService(0, 60), time.Hour)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	s, err := sessions.CreateSession(ctx, "u-1", "bsg001@bsg.local")
	require.NoError(t, err)

	got, err := sessions.GetSession(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)

	now = now.Add(2 * time.Hour)
	_, err = sessions.GetSession(ctx, s.SessionID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = sessions.GetSession(ctx, s.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_RevokeUserSessions(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(NewCacheService(0, 60), time.Hour)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	old, err := sessions.CreateSession(ctx, "u-1", "bsg001@bsg.local")
	require.NoError(t, err)
	other, err := sessions.CreateSession(ctx, "u-2", "bsg002@bsg.local")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	sessions.RevokeUserSessions(ctx, "u-1")

	_, err = sessions.GetSession(ctx, old.SessionID)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = sessions.RefreshSession(ctx, old.SessionID)
	assert.Error(t, err)

	_, err = sessions.GetSession(ctx, other.SessionID)
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	fresh, err := sessions.CreateSession(ctx, "u-1", "bsg001@bsg.local")
	require.NoError(t, err)
	_, err = sessions.GetSession(ctx, fresh.SessionID)
	assert.NoError(t, err, "sessions opened after revocation stay valid")
}

func TestURLSigner_RoundTripAndExpiry(t *testing.T) {
	signer := NewURLSignerService([]byte("test-secret"))
	now := time.Now()
	signer.now = func() time.Time { return now }

	token, expires, err := signer.Sign("avatars", "u-1/photo.png", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expires, time.Second)

	obj, err := signer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "avatars", obj.Bucket)
	assert.Equal(t, "u-1/photo.png", obj.Path)

	other := NewURLSignerService([]byte("another-secret"))
	_, err = other.Validate(token)
	assert.Error(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = signer.Validate(token)
	assert.Error(t, err)
}

func TestRedisCacheService(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := NewRedisCacheService(NewRedisClient(addr, ""))
	defer c.Close()

	c.Set(ctx, "test:key", "value", time.Minute)
	got, found := c.Get(ctx, "test:key")
	require.True(t, found)
	assert.Equal(t, "value", got)

	c.Delete(ctx, "test:key")
	_, found = c.Get(ctx, "test:key")
	assert.False(t, found)
}
