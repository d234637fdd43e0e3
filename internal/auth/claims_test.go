package auth

import (
	"context"
	"testing"

	"bsg-portal/registry/internal/constants"

	"github.com/stretchr/testify/assert"
)

func TestCallerRoleChecks(t *testing.T) {
	anon := Caller{}
	assert.False(t, anon.IsAuthenticated())
	assert.False(t, anon.Owns(""))

	coord := Caller{UserID: "u-1", Roles: []constants.Role{constants.RoleCoordinator}}
	assert.True(t, coord.IsAdminOrCoordinator())
	assert.False(t, coord.IsAdmin())
	assert.True(t, coord.Owns("u-1"))
	assert.False(t, coord.Owns("u-2"))

	member := Caller{UserID: "u-3", Roles: []constants.Role{constants.RoleMember, constants.RoleCore}}
	assert.False(t, member.IsAdminOrCoordinator())
	assert.True(t, member.HasRole(constants.RoleCore))
}

func TestCallerContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Caller{}, CallerFrom(ctx))

	want := Caller{UserID: "u-9", Roles: []constants.Role{constants.RoleAdmin}}
	ctx = SetCaller(ctx, want)
	ctx = SetRequestID(ctx, "req-1")
	assert.Equal(t, want, CallerFrom(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
}
