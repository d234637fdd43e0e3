package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"
	"bsg-portal/registry/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestListMembers_NewestFirstWithRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.issue(t, "Asha", "Patel")
	env.issue(t, "Ravi", "Shah")
	require.NoError(t, env.identity.AssignRole(ctx, adminCaller, first.UserID, constants.RoleExecutive))

	members, err := env.members.ListMembers(ctx, coordinatorCaller())
	require.NoError(t, err)
	require.Len(t, members, 2)

	byUID := map[string]string{}
	for _, m := range members {
		byUID[m.UID] = m.Role
	}
	assert.Equal(t, "executive", byUID["BSG001"])
	assert.Equal(t, "member", byUID["BSG002"])

	_, err = env.members.ListMembers(ctx, memberCaller(first.UserID))
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestGetMember_SelfOrStaffOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	asha := env.issue(t, "Asha", "Patel")
	ravi := env.issue(t, "Ravi", "Shah")
	ashaID := env.profileID(t, asha.UID)

	view, err := env.members.GetMember(ctx, memberCaller(asha.UserID), ashaID)
	require.NoError(t, err)
	assert.Equal(t, asha.UID, view.UID)

	_, err = env.members.GetMember(ctx, memberCaller(ravi.UserID), ashaID)
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	mine, err := env.members.GetMyProfile(ctx, memberCaller(ravi.UserID))
	require.NoError(t, err)
	assert.Equal(t, ravi.UID, mine.UID)

	_, err = env.members.GetMember(ctx, adminCaller, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateMember_PartialAndClearing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issued, err := env.identity.IssueMember(ctx, adminCaller, dtos.IssueMemberRequest{
		FirstName: "Asha",
		LastName:  "Patel",
		MemberProfileInput: dtos.MemberProfileInput{
			MiddleName: strPtr("K"),
			BloodGroup: strPtr("O+"),
		},
	})
	require.NoError(t, err)
	id := env.profileID(t, issued.UID)

	view, err := env.members.UpdateMember(ctx, adminCaller, id, dtos.UpdateMemberRequest{
		LastName: strPtr("Mehta"),
		MemberProfileInput: dtos.MemberProfileInput{
			MiddleName:      strPtr(""),
			CurrentSemester: intPtr(4),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Mehta", view.FullName)
	assert.Nil(t, view.MiddleName)
	assert.Equal(t, "O+", *view.BloodGroup)
	assert.Equal(t, 4, *view.CurrentSemester)
	assert.Equal(t, issued.UID, view.UID)

	_, err = env.members.UpdateMember(ctx, adminCaller, id, dtos.UpdateMemberRequest{FirstName: strPtr("  ")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.members.UpdateMember(ctx, adminCaller, id, dtos.UpdateMemberRequest{
		MemberProfileInput: dtos.MemberProfileInput{WhatsappNumber: strPtr("12345")},
	})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.members.UpdateMember(ctx, adminCaller, "missing", dtos.UpdateMemberRequest{LastName: strPtr("X")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestToggleStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.profileID(t, env.issue(t, "Asha", "Patel").UID)

	status, err := env.members.ToggleStatus(ctx, adminCaller, id)
	require.NoError(t, err)
	assert.Equal(t, constants.MemberInactive, status)

	status, err = env.members.ToggleStatus(ctx, adminCaller, id)
	require.NoError(t, err)
	assert.Equal(t, constants.MemberActive, status)

	err = env.members.SetStatus(ctx, adminCaller, id, "retired")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestSetProfilePhoto_ReturnsSignedURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issued := env.issue(t, "Asha", "Patel")
	id := env.profileID(t, issued.UID)

	view, err := env.members.SetProfilePhoto(ctx, memberCaller(issued.UserID), id,
		"https://files.example/storage/v1/object/public/avatars/u1/me%20now.png")
	require.NoError(t, err)
	require.NotNil(t, view.ProfilePhotoURL)
	assert.Equal(t, "https://blobs.test/avatars/u1/me now.png?ttl=3600", *view.ProfilePhotoURL)

	other := env.issue(t, "Ravi", "Shah")
	_, err = env.members.SetProfilePhoto(ctx, memberCaller(other.UserID), id, "avatars/x.png")
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestDeleteMember_RefusedWhileHoldingInventory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issued := env.issue(t, "Asha", "Patel")
	id := env.profileID(t, issued.UID)

	res, err := env.inventory.CreateResource(ctx, adminCaller, dtos.CreateResourceRequest{Name: "Tent", Category: "camping", TotalQuantity: 3})
	require.NoError(t, err)
	assignment, err := env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: res.ID, UserID: issued.UserID, Quantity: 1})
	require.NoError(t, err)

	err = env.members.DeleteMember(ctx, adminCaller, id)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeActiveAssignments, apperr.CodeOf(err))

	require.NoError(t, env.inventory.ReturnAssignment(ctx, adminCaller, assignment.ID))
	_, err = env.leaves.Submit(ctx, memberCaller(issued.UserID), dtos.LeaveRequestInput{FromDate: "2024-04-01", ToDate: "2024-04-02", Reason: "exams"})
	require.NoError(t, err)

	require.NoError(t, env.members.DeleteMember(ctx, adminCaller, id))
	assert.Equal(t, []string{issued.UserID}, env.provider.deletedIDs())

	for _, model := range []interface{}{&gormModels.Profile{}, &gormModels.UserRole{}, &gormModels.LeaveRequest{}, &gormModels.ResourceAssignment{}} {
		var n int64
		require.NoError(t, env.db.Model(model).Where("user_id = ?", issued.UserID).Count(&n).Error)
		assert.Zero(t, n, "%T rows left behind", model)
	}

	_, err = env.members.GetMember(ctx, adminCaller, id)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteMember_CannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	issued := env.issue(t, "Asha", "Patel")
	self := coordinatorCaller()
	self.UserID = issued.UserID

	err := env.members.DeleteMember(context.Background(), self, env.profileID(t, issued.UID))
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeleteMember_EndsLiveSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessions := common.NewSessionService(common.NewCacheService(0, 60), time.Hour)
	provider := providers.NewLocalAuthProvider(
		repositories.NewAuthUserRepository(env.db),
		sessions,
		[]byte("test-secret"),
	).WithBcryptCost(bcrypt.MinCost)
	identity := NewIdentityService(env.db, provider, common.NewCacheService(0, 60), env.metrics, IdentityConfig{})
	members := NewMemberService(env.db, provider, identity, NewStorageService(env.signer))

	issued, err := identity.IssueMember(ctx, adminCaller, dtos.IssueMemberRequest{FirstName: "Asha", LastName: "Patel"})
	require.NoError(t, err)
	sess, err := identity.ResolveLoginByUID(ctx, issued.UID, issued.Password)
	require.NoError(t, err)
	_, err = identity.Authenticate(ctx, sess.AccessToken)
	require.NoError(t, err)

	profile, err := identity.profiles.GetByUID(ctx, issued.UID)
	require.NoError(t, err)
	require.NoError(t, members.DeleteMember(ctx, adminCaller, profile.ID))

	_, err = identity.Authenticate(ctx, sess.AccessToken)
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated), "deleted member kept a live session: %v", err)
	_, err = identity.RefreshSession(ctx, sess.AccessToken)
	assert.True(t, errors.Is(err, apperr.ErrNotAuthenticated))
}
