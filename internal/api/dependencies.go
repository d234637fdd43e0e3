package api

import (
	"context"
	"fmt"
	"time"

	"bsg-portal/registry/internal/common"
	"bsg-portal/registry/internal/config"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/providers"
	"bsg-portal/registry/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Providers struct {
	Auth providers.AuthProvider
	Blob providers.BlobSigner
}

type Services struct {
	Identity      *services.IdentityService
	Members       *services.MemberService
	Activities    *services.ActivityService
	Attendance    *services.AttendanceService
	Inventory     *services.InventoryService
	Leaves        *services.LeaveService
	Announcements *services.AnnouncementService
	Meetings      *services.MeetingService
	Certificates  *services.CertificateService
	Notifications *services.NotificationService
	Dashboard     *services.DashboardService
	Storage       *services.StorageService
}

type Dependencies struct {
	Config    *config.Config
	DB        *sqlx.DB
	Redis     *redis.Client
	Cache     common.CacheInterface
	Metrics   *metrics.MetricsRegistry
	Providers *Providers
	Services  *Services
	// ObjectSigner and ObjectStore serve blobs locally; both nil with the GCS backend.
	ObjectSigner *common.URLSignerService
	ObjectStore  *providers.LocalBlobStore

	closers []func() error
}

// InitDependencies wires caches, providers and services on top of open database handles.
func InitDependencies(ctx context.Context, cfg *config.Config, sqlxDB *sqlx.DB, gormDB *gorm.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, DB: sqlxDB, Metrics: metricsReg}

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		deps.Redis = common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
		deps.Cache = common.NewRedisCacheService(deps.Redis)
	default:
		deps.Cache = common.NewCacheService(600, 60)
	}
	deps.closers = append(deps.closers, deps.Cache.Close)

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		logging.Warn("JWT_SECRET not set, using an insecure development secret")
		secret = []byte("bsg-dev-secret")
	}

	sessions := common.NewSessionService(deps.Cache, cfg.SessionTTL)
	authProvider := providers.NewLocalAuthProvider(repositories.NewAuthUserRepository(gormDB), sessions, secret)

	var blob providers.BlobSigner
	switch cfg.BlobBackend {
	case config.BlobBackendGCS:
		gcs, err := providers.NewGCSBlobSigner(ctx, cfg.GCSCredentialsFile, cfg.GCSAccessID, cfg.GCSBucketPrefix)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to init gcs blob signer: %w", err)
		}
		deps.closers = append(deps.closers, gcs.Close)
		blob = gcs
	default:
		deps.ObjectSigner = common.NewURLSignerService(secret)
		deps.ObjectStore = providers.NewLocalBlobStore(cfg.BlobDir)
		blob = providers.NewLocalBlobSigner(cfg.PublicBaseURL, deps.ObjectSigner)
	}
	deps.Providers = &Providers{Auth: authProvider, Blob: blob}

	roles, err := cfg.Roles()
	if err != nil {
		deps.Close()
		return nil, err
	}

	clock := services.Clock(time.Now)
	storage := services.NewStorageService(blob)
	identity := services.NewIdentityService(gormDB, authProvider, deps.Cache, metricsReg, services.IdentityConfig{
		LoginDomain:    cfg.LoginDomain,
		RolePrecedence: roles,
	})
	notifications := services.NewNotificationService(gormDB)

	deps.Services = &Services{
		Identity:      identity,
		Members:       services.NewMemberService(gormDB, authProvider, identity, storage),
		Activities:    services.NewActivityService(gormDB, notifications, metricsReg, services.ActivityConfig{EnforceCapacity: cfg.EnforceActivityCapacity}),
		Attendance:    services.NewAttendanceService(gormDB, metricsReg, clock),
		Inventory:     services.NewInventoryService(gormDB, metricsReg, clock),
		Leaves:        services.NewLeaveService(gormDB, notifications, metricsReg, clock),
		Announcements: services.NewAnnouncementService(gormDB, storage),
		Meetings:      services.NewMeetingService(gormDB, storage),
		Certificates:  services.NewCertificateService(gormDB, notifications, storage),
		Notifications: notifications,
		Dashboard:     services.NewDashboardService(sqlxDB, metricsReg, cfg.LowStockThreshold, clock),
		Storage:       storage,
	}

	return deps, nil
}

// Close releases cache and blob store clients.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logging.Warn("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}
