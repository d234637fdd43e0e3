package services

import (
	"context"
	"errors"
	"testing"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivity(t *testing.T, env *testEnv, req dtos.CreateActivityRequest) *dtos.ActivityView {
	t.Helper()
	if req.Name == "" {
		req.Name = "Trek"
	}
	if req.ActivityDate == "" {
		req.ActivityDate = "2024-04-10"
	}
	a, err := env.activities.Create(context.Background(), adminCaller, req)
	require.NoError(t, err)
	return a
}

func TestActivityCreate_Defaults(t *testing.T) {
	env := newTestEnv(t)
	a := newActivity(t, env, dtos.CreateActivityRequest{})

	assert.Equal(t, "upcoming", a.Status)
	assert.True(t, a.RegistrationEnabled)
	assert.Equal(t, adminCaller.UserID, a.CreatedBy)

	_, err := env.activities.Create(context.Background(), adminCaller, dtos.CreateActivityRequest{
		Name: "Camp", ActivityDate: "10/04/2024",
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.activities.Create(context.Background(), memberCaller("m"), dtos.CreateActivityRequest{
		Name: "Camp", ActivityDate: "2024-04-10",
	})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestRegister_DuplicateLeavesOneRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{})
	scout := memberCaller("scout-1")

	_, err := env.activities.Register(ctx, scout, a.ID)
	require.NoError(t, err)

	_, err = env.activities.Register(ctx, scout, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAlreadyRegistered), "got %v", err)

	var n int64
	require.NoError(t, env.db.Model(&gormModels.ActivityRegistration{}).
		Where("activity_id = ? AND user_id = ?", a.ID, scout.UserID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	count, err := env.activities.RegisteredCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	notes, err := env.notifications.ListMine(ctx, scout)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestRegister_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	closed := newActivity(t, env, dtos.CreateActivityRequest{RegistrationEnabled: new(bool)})

	_, err := env.activities.Register(ctx, auth.Caller{}, closed.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated))

	_, err = env.activities.Register(ctx, memberCaller("s"), "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = env.activities.Register(ctx, memberCaller("s"), closed.ID)
	assert.True(t, errors.Is(err, apperr.ErrRegistrationClosed))
}

func TestRegister_Capacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{Capacity: intPtr(1)})

	// advisory by default
	_, err := env.activities.Register(ctx, memberCaller("s1"), a.ID)
	require.NoError(t, err)
	_, err = env.activities.Register(ctx, memberCaller("s2"), a.ID)
	require.NoError(t, err)

	env.activities.cfg.EnforceCapacity = true
	_, err = env.activities.Register(ctx, memberCaller("s3"), a.ID)
	assert.True(t, errors.Is(err, apperr.ErrActivityFull), "got %v", err)
}

func TestActivityList_CountsAndCallerFlag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	later := newActivity(t, env, dtos.CreateActivityRequest{Name: "Hike", ActivityDate: "2024-05-01"})
	sooner := newActivity(t, env, dtos.CreateActivityRequest{Name: "Drill", ActivityDate: "2024-04-01"})

	_, err := env.activities.Register(ctx, memberCaller("s1"), later.ID)
	require.NoError(t, err)
	_, err = env.activities.Register(ctx, memberCaller("s2"), later.ID)
	require.NoError(t, err)

	list, err := env.activities.List(ctx, memberCaller("s1"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].ID)
	assert.Equal(t, int64(0), list[0].RegisteredCount)
	assert.Equal(t, int64(2), list[1].RegisteredCount)
	assert.True(t, list[1].IsRegistered)
	assert.False(t, list[0].IsRegistered)

	anon, err := env.activities.List(ctx, auth.Caller{})
	require.NoError(t, err)
	assert.False(t, anon[1].IsRegistered)
}

func TestUnregister_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{})
	scout := memberCaller("s1")

	_, err := env.activities.Register(ctx, scout, a.ID)
	require.NoError(t, err)
	require.NoError(t, env.activities.Unregister(ctx, scout, a.ID))
	require.NoError(t, env.activities.Unregister(ctx, scout, a.ID))

	ok, err := env.activities.IsRegistered(ctx, a.ID, scout.UserID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActivityUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{Location: strPtr("Ground")})
	_, err := env.activities.Register(ctx, memberCaller("s1"), a.ID)
	require.NoError(t, err)

	updated, err := env.activities.Update(ctx, adminCaller, a.ID, dtos.UpdateActivityRequest{
		Status:   strPtr("completed"),
		Location: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Nil(t, updated.Location)
	assert.Equal(t, int64(1), updated.RegisteredCount)

	_, err = env.activities.Register(ctx, memberCaller("s2"), a.ID)
	assert.True(t, errors.Is(err, apperr.ErrRegistrationClosed))

	require.NoError(t, env.activities.Delete(ctx, adminCaller, a.ID))
	var n int64
	require.NoError(t, env.db.Model(&gormModels.ActivityRegistration{}).Where("activity_id = ?", a.ID).Count(&n).Error)
	assert.Zero(t, n)

	err = env.activities.Delete(ctx, adminCaller, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListRegistrations_UnknownMemberFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := newActivity(t, env, dtos.CreateActivityRequest{})
	asha := env.issue(t, "Asha", "Patel")

	_, err := env.activities.Register(ctx, memberCaller(asha.UserID), a.ID)
	require.NoError(t, err)
	_, err = env.activities.Register(ctx, memberCaller("ghost"), a.ID)
	require.NoError(t, err)

	roster, err := env.activities.ListRegistrations(ctx, coordinatorCaller(), a.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	names := map[string]string{}
	for _, r := range roster {
		names[r.UserID] = r.MemberName + "/" + r.MemberUID
	}
	assert.Equal(t, "Asha Patel/BSG001", names[asha.UserID])
	assert.Equal(t, "Unknown/N/A", names["ghost"])
}
