package repositories

import (
	"context"
	"fmt"

	"bsg-portal/registry/internal/constants"

	"github.com/jmoiron/sqlx"
)

// StatsRepository runs raw aggregate queries for the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

type AttendanceTotals struct {
	Total   int64 `db:"total"`
	Present int64 `db:"present"`
}

func (r *StatsRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to run count: %w", err)
	}
	return n, nil
}

func (r *StatsRepository) TotalMembers(ctx context.Context) (int64, error) {
	return r.count(ctx, constants.CountMembers)
}

func (r *StatsRepository) ActiveMembers(ctx context.Context) (int64, error) {
	return r.count(ctx, constants.CountActiveMembers, string(constants.MemberActive))
}

func (r *StatsRepository) UpcomingActivities(ctx context.Context, today string) (int64, error) {
	return r.count(ctx, constants.CountUpcomingActivities, today, string(constants.ActivityUpcoming))
}

func (r *StatsRepository) PendingLeaves(ctx context.Context) (int64, error) {
	return r.count(ctx, constants.CountPendingLeaves, string(constants.LeavePending))
}

func (r *StatsRepository) LowStockResources(ctx context.Context, threshold int) (int64, error) {
	return r.count(ctx, constants.CountLowStockResources, threshold)
}

func (r *StatsRepository) AttendanceTotals(ctx context.Context) (AttendanceTotals, error) {
	var t AttendanceTotals
	err := r.db.GetContext(ctx, &t, r.db.Rebind(constants.AttendanceTotals), string(constants.AttendancePresent))
	if err != nil {
		return t, fmt.Errorf("failed to sum attendance: %w", err)
	}
	return t, nil
}

func (r *StatsRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, constants.HealthPing)
}
