package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/db/testdb"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIDCounter_NextIsSequential(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewUIDCounterRepository(db)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.Next(ctx, constants.UIDCounterName)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// unknown counters start at one
	got, err := repo.Next(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestUserRoles_DuplicateGrant(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewUserRoleRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "u-1", constants.RoleCore))
	err := repo.Add(ctx, "u-1", constants.RoleCore)
	assert.True(t, errors.Is(err, repositories.ErrDuplicate), "got %v", err)

	require.NoError(t, repo.Add(ctx, "u-1", constants.RoleAdmin))
	roles, err := repo.RolesOf(ctx, "u-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []constants.Role{constants.RoleCore, constants.RoleAdmin}, roles)

	err = repo.Remove(ctx, "u-1", constants.RoleExecutive)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestInventory_GuardedStockUpdates(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewInventoryRepository(db)
	ctx := context.Background()

	res := gormModels.Resource{Name: "Rope", Category: "camping", TotalQuantity: 5, AvailableQuantity: 5, Unit: "pcs"}
	require.NoError(t, repo.CreateResource(ctx, &res))

	ok, err := repo.TakeStock(ctx, res.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.TakeStock(ctx, res.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.PutStock(ctx, res.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok, "increment past total must not apply")

	ok, err = repo.PutStock(ctx, res.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetResource(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.AvailableQuantity)

	_, err = repo.GetResource(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestAssignments_MarkReturnedOnce(t *testing.T) {
	db := testdb.New(t)
	repo := repositories.NewInventoryRepository(db)
	ctx := context.Background()

	res := gormModels.Resource{Name: "Tent", Category: "camping", TotalQuantity: 2, AvailableQuantity: 2}
	require.NoError(t, repo.CreateResource(ctx, &res))
	a := gormModels.ResourceAssignment{ResourceID: res.ID, UserID: "u-1", Quantity: 1, AssignedAt: time.Now()}
	require.NoError(t, repo.CreateAssignment(ctx, &a))

	active, err := repo.ActiveQuantity(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	ok, err := repo.MarkReturned(ctx, a.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkReturned(ctx, a.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStats_Counts(t *testing.T) {
	db := testdb.New(t)
	stats := repositories.NewStatsRepository(testdb.SQLX(t, db))
	ctx := context.Background()

	require.NoError(t, db.Create(&gormModels.Profile{UserID: "u-1", UID: "BSG001", FirstName: "A", LastName: "B"}).Error)
	require.NoError(t, db.Create(&gormModels.Profile{UserID: "u-2", UID: "BSG002", FirstName: "C", LastName: "D", Status: constants.MemberInactive}).Error)

	total, err := stats.TotalMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	active, err := stats.ActiveMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	totals, err := stats.AttendanceTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, repositories.AttendanceTotals{}, totals)

	assert.NoError(t, stats.Ping(ctx))
}
