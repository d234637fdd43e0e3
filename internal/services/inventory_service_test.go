package services

import (
	"context"
	"errors"
	"testing"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// assertConserved checks available + active quantities == total.
func assertConserved(t *testing.T, env *testEnv, resourceID string) {
	t.Helper()
	ctx := context.Background()
	res, err := env.inventory.inventory.GetResource(ctx, resourceID)
	require.NoError(t, err)
	active, err := env.inventory.inventory.ActiveQuantity(ctx, resourceID)
	require.NoError(t, err)
	assert.Equal(t, res.TotalQuantity, res.AvailableQuantity+active, "stock not conserved")
}

func TestInventory_ScarfScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scout := env.issue(t, "Asha", "Patel")

	scarf, err := env.inventory.CreateResource(ctx, adminCaller, dtos.CreateResourceRequest{
		Name: "Scarf", Category: "uniform", TotalQuantity: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, scarf.AvailableQuantity)
	assert.Equal(t, "pcs", scarf.Unit)

	first, err := env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: scarf.ID, UserID: scout.UserID, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "Scarf", first.ResourceName)
	assert.Equal(t, "Asha Patel", first.MemberName)
	assertConserved(t, env, scarf.ID)

	_, err = env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: scarf.ID, UserID: scout.UserID, Quantity: 45})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock), "got %v", err)
	assert.Contains(t, err.Error(), "available 40")

	resources, err := env.inventory.ListResources(ctx, memberCaller(scout.UserID))
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, 40, resources[0].AvailableQuantity)
	assertConserved(t, env, scarf.ID)

	require.NoError(t, env.inventory.ReturnAssignment(ctx, adminCaller, first.ID))
	resources, err = env.inventory.ListResources(ctx, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 50, resources[0].AvailableQuantity)

	active, err := env.inventory.ListActiveAssignments(ctx, adminCaller)
	require.NoError(t, err)
	assert.Empty(t, active)
	assertConserved(t, env, scarf.ID)

	history, err := env.inventory.ListAssignmentsForMember(ctx, memberCaller(scout.UserID), scout.UserID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotNil(t, history[0].ReturnedAt)
}

func TestInventory_NotFoundCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scout := env.issue(t, "Asha", "Patel")

	_, err := env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: "missing", UserID: scout.UserID, Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrResourceNotFound), "got %v", err)

	err = env.inventory.ReturnAssignment(ctx, adminCaller, "missing")
	assert.True(t, errors.Is(err, apperr.ErrAssignmentNotFound), "got %v", err)

	rope, err := env.inventory.CreateResource(ctx, adminCaller, dtos.CreateResourceRequest{Name: "Rope", Category: "camping", TotalQuantity: 2})
	require.NoError(t, err)
	a, err := env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: rope.ID, UserID: scout.UserID, Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, env.inventory.ReturnAssignment(ctx, adminCaller, a.ID))

	err = env.inventory.ReturnAssignment(ctx, adminCaller, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrAssignmentNotFound), "second return must fail, got %v", err)
	assertConserved(t, env, rope.ID)
}

func TestInventory_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.inventory.CreateResource(ctx, adminCaller, dtos.CreateResourceRequest{Name: "Rope", Category: "camping", TotalQuantity: -1})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: "r", UserID: "u", Quantity: 0})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.inventory.CreateResource(ctx, memberCaller("m"), dtos.CreateResourceRequest{Name: "Rope", Category: "camping", TotalQuantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))
}

func TestInventory_AssignRollsBackStockWhenAssignmentFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scout := env.issue(t, "Asha", "Patel")
	tents, err := env.inventory.CreateResource(ctx, adminCaller, dtos.CreateResourceRequest{Name: "Tent", Category: "camping", TotalQuantity: 5})
	require.NoError(t, err)

	writeFailed := errors.New("disk I/O error")
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:fail_assignment_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == (gormModels.ResourceAssignment{}).TableName() {
			_ = tx.AddError(writeFailed)
		}
	}))

	_, err = env.inventory.Assign(ctx, adminCaller, dtos.AssignResourceRequest{ResourceID: tents.ID, UserID: scout.UserID, Quantity: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrBackendUnavailable), "got %v", err)
	assert.True(t, errors.Is(err, writeFailed))

	res, err := env.inventory.inventory.GetResource(ctx, tents.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.AvailableQuantity, "stock decrement must roll back with the failed insert")

	var rows int64
	require.NoError(t, env.db.Model(&gormModels.ResourceAssignment{}).Count(&rows).Error)
	assert.Zero(t, rows)
	assertConserved(t, env, tents.ID)
}

func TestAssignmentView_UnknownResourceFallback(t *testing.T) {
	v := toAssignmentView(&gormModels.ResourceAssignment{ID: "a-1", ResourceID: "gone", UserID: "u-1", Quantity: 1}, nil, nil)
	assert.Equal(t, constants.MsgUnknownResource, v.ResourceName)
	assert.Equal(t, constants.MsgUnknownMember, v.MemberName)
}
