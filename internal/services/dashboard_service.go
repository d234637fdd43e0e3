package services

import (
	"context"
	"math"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	stats             *repositories.StatsRepository
	metrics           *metrics.MetricsRegistry
	lowStockThreshold int
	clock             Clock
}

func NewDashboardService(db *sqlx.DB, metricsReg *metrics.MetricsRegistry, lowStockThreshold int, clock Clock) *DashboardService {
	return &DashboardService{
		stats:             repositories.NewStatsRepository(db),
		metrics:           metricsReg,
		lowStockThreshold: lowStockThreshold,
		clock:             clock,
	}
}

// Stats runs the dashboard counts concurrently. Any failing count fails the whole call.
func (s *DashboardService) Stats(ctx context.Context, caller auth.Caller) (*dtos.DashboardStats, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { s.metrics.DashboardQueryDuration.Observe(time.Since(start).Seconds()) }()

	var out dtos.DashboardStats
	var totals repositories.AttendanceTotals
	today := s.clock.today()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalMembers, err = s.stats.TotalMembers(gctx)
		return
	})
	g.Go(func() (err error) {
		out.ActiveMembers, err = s.stats.ActiveMembers(gctx)
		return
	})
	g.Go(func() (err error) {
		out.UpcomingActivities, err = s.stats.UpcomingActivities(gctx, today)
		return
	})
	g.Go(func() (err error) {
		out.PendingLeaves, err = s.stats.PendingLeaves(gctx)
		return
	})
	g.Go(func() (err error) {
		out.LowStockItems, err = s.stats.LowStockResources(gctx, s.lowStockThreshold)
		return
	})
	g.Go(func() (err error) {
		totals, err = s.stats.AttendanceTotals(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Backend("load dashboard stats", err)
	}

	out.AttendancePercentage = AttendancePercentage(totals.Present, totals.Total)
	return &out, nil
}

// AttendancePercentage is present/total as a whole percent, 0 when nothing was marked.
func AttendancePercentage(present, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(present) * 100 / float64(total)))
}

// Ping checks the relational store for the health endpoint.
func (s *DashboardService) Ping(ctx context.Context) error {
	return s.stats.Ping(ctx)
}
