package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"bsg-portal/registry/internal/constants"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	BlobBackendLocal = "local"
	BlobBackendGCS   = "gcs"
)

type Config struct {
	AppEnv     string `yaml:"appEnv"     envconfig:"APP_ENV"`
	ListenAddr string `yaml:"listenAddr" envconfig:"LISTEN_ADDR"`

	PGHost     string `yaml:"pgHost"     envconfig:"PG_HOST"`
	PGPort     string `yaml:"pgPort"     envconfig:"PG_PORT"`
	PGUser     string `yaml:"pgUser"     envconfig:"PG_USER"`
	PGDB       string `yaml:"pgDb"       envconfig:"PG_DB"`
	PGPassword string `yaml:"pgPassword" envconfig:"PG_PASSWORD"`

	CacheBackend  string `yaml:"cacheBackend"  envconfig:"CACHE_BACKEND"`
	RedisHost     string `yaml:"redisHost"     envconfig:"REDIS_HOST"`
	RedisPort     string `yaml:"redisPort"     envconfig:"REDIS_PORT"`
	RedisPassword string `yaml:"redisPassword" envconfig:"REDIS_PASSWORD"`

	JWTSecret   string        `yaml:"jwtSecret"   envconfig:"JWT_SECRET"`
	SessionTTL  time.Duration `yaml:"sessionTTL"  envconfig:"SESSION_TTL"`
	LoginDomain string        `yaml:"loginDomain" envconfig:"LOGIN_DOMAIN"`
	// Comma separated, most privileged first.
	RolePrecedence string `yaml:"rolePrecedence" envconfig:"ROLE_PRECEDENCE"`

	EnforceActivityCapacity bool `yaml:"enforceActivityCapacity" envconfig:"ENFORCE_ACTIVITY_CAPACITY"`
	LowStockThreshold       int  `yaml:"lowStockThreshold"       envconfig:"LOW_STOCK_THRESHOLD"`

	BlobBackend        string `yaml:"blobBackend"        envconfig:"BLOB_BACKEND"`
	BlobDir            string `yaml:"blobDir"            envconfig:"BLOB_DIR"`
	PublicBaseURL      string `yaml:"publicBaseURL"      envconfig:"PUBLIC_BASE_URL"`
	GCSBucketPrefix    string `yaml:"gcsBucketPrefix"    envconfig:"GCS_BUCKET_PREFIX"`
	GCSCredentialsFile string `yaml:"gcsCredentialsFile" envconfig:"GCS_CREDENTIALS_FILE"`
	GCSAccessID        string `yaml:"gcsAccessID"        envconfig:"GCS_ACCESS_ID"`

	// LoginRatePerMinute bounds sign in attempts per client IP.
	LoginRatePerMinute int `yaml:"loginRatePerMinute" envconfig:"LOGIN_RATE_PER_MINUTE"`
	// Comma separated; empty allows any https origin plus the local dev server.
	CORSAllowedOrigins string `yaml:"corsAllowedOrigins" envconfig:"CORS_ALLOWED_ORIGINS"`
}

func Default() *Config {
	return &Config{
		AppEnv:             "development",
		ListenAddr:         ":8080",
		PGHost:             "localhost",
		PGPort:             "5432",
		PGUser:             "postgres",
		PGDB:               "bsg",
		CacheBackend:       CacheBackendMemory,
		RedisHost:          "localhost",
		RedisPort:          "6379",
		SessionTTL:         24 * time.Hour,
		LoginDomain:        "bsg.local",
		RolePrecedence:     "admin,coordinator,executive,core,member",
		LowStockThreshold:  10,
		BlobBackend:        BlobBackendLocal,
		BlobDir:            "./storage",
		PublicBaseURL:      "http://localhost:8080",
		LoginRatePerMinute: 10,
	}
}

// Load overlays an optional YAML file and then the environment onto the defaults.
// Outside production a .env file in the working directory is read first.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading .env: %w", err)
		}
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Roles(); err != nil {
		return fmt.Errorf("invalid ROLE_PRECEDENCE: %w", err)
	}
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q (must be 'memory' or 'redis')", c.CacheBackend)
	}
	switch c.BlobBackend {
	case BlobBackendLocal:
	case BlobBackendGCS:
		if c.GCSCredentialsFile == "" && c.GCSAccessID == "" {
			return errors.New("gcs blob backend needs GCS_CREDENTIALS_FILE or GCS_ACCESS_ID")
		}
	default:
		return fmt.Errorf("invalid BLOB_BACKEND %q (must be 'local' or 'gcs')", c.BlobBackend)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("LOW_STOCK_THRESHOLD must not be negative, got %d", c.LowStockThreshold)
	}
	if strings.TrimSpace(c.LoginDomain) == "" {
		return errors.New("LOGIN_DOMAIN must not be empty")
	}
	return nil
}

// Roles returns the configured display precedence. Roles missing from the
// configured list are appended in their default order.
func (c *Config) Roles() ([]constants.Role, error) {
	roles, err := constants.ParseRoleList(c.RolePrecedence)
	if err != nil {
		return nil, err
	}
	for _, r := range constants.AllRoles {
		found := false
		for _, have := range roles {
			if have == r {
				found = true
				break
			}
		}
		if !found {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// PostgresDSN is the libpq connection string shared by gorm and sqlx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPassword, c.PGDB,
	)
}

func (c *Config) RedisAddr() string { return c.RedisHost + ":" + c.RedisPort }

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
