package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Backend       BackendConfig
	Checkout      CheckoutConfig
	Notifications NotificationsConfig
	Idempotency   IdempotencyConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.FeatureFlags.validate(); err != nil {
		return nil, err
	}
	if cfg.FeatureFlags.IsLocal() && !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.FeatureFlags.IsRemote() && strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return nil, fmt.Errorf("%s is required when persistence mode is %q", EnvBackendBaseURL, PersistenceRemote)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RENTPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"RENTPOS_DB_DSN"`
	Driver string `envconfig:"RENTPOS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"RENTPOS_DB_HOST"`
	Port     int    `envconfig:"RENTPOS_DB_PORT" default:"5432"`
	User     string `envconfig:"RENTPOS_DB_USER"`
	Password string `envconfig:"RENTPOS_DB_PASSWORD"`
	Name     string `envconfig:"RENTPOS_DB_NAME"`
	SSLMode  string `envconfig:"RENTPOS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"RENTPOS_SQLITE_PATH" default:"file:rentpos.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"RENTPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTPOS_REDIS_ADDR"`
	Password     string        `envconfig:"RENTPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BackendConfig points at the REST backend that owns transactions and rentals.
type BackendConfig struct {
	BaseURL string        `envconfig:"RENTPOS_BACKEND_BASE_URL"`
	Token   string        `envconfig:"RENTPOS_BACKEND_TOKEN"`
	Timeout time.Duration `envconfig:"RENTPOS_BACKEND_TIMEOUT" default:"10s"`

	BreakerMaxRequests  uint32        `envconfig:"RENTPOS_BACKEND_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval     time.Duration `envconfig:"RENTPOS_BACKEND_BREAKER_INTERVAL" default:"60s"`
	BreakerTimeout      time.Duration `envconfig:"RENTPOS_BACKEND_BREAKER_TIMEOUT" default:"30s"`
	BreakerFailureRatio float64       `envconfig:"RENTPOS_BACKEND_BREAKER_FAILURE_RATIO" default:"0.6"`
	BreakerMinRequests  uint32        `envconfig:"RENTPOS_BACKEND_BREAKER_MIN_REQUESTS" default:"5"`
}

type CheckoutConfig struct {
	DefaultSaleStatus   string        `envconfig:"RENTPOS_CHECKOUT_DEFAULT_SALE_STATUS" default:"proses"`
	DefaultRentalStatus string        `envconfig:"RENTPOS_CHECKOUT_DEFAULT_RENTAL_STATUS" default:"proses"`
	DefaultSaleVariant  string        `envconfig:"RENTPOS_CHECKOUT_DEFAULT_SALE_VARIANT" default:"pph"`
	LockTTL             time.Duration `envconfig:"RENTPOS_CHECKOUT_LOCK_TTL" default:"30s"`
	SubmitTimeout       time.Duration `envconfig:"RENTPOS_CHECKOUT_SUBMIT_TIMEOUT" default:"15s"`
	DraftTTL            time.Duration `envconfig:"RENTPOS_DRAFT_TTL" default:"12h"`
}

type NotificationsConfig struct {
	WarningDismiss       time.Duration `envconfig:"RENTPOS_NOTIFY_WARNING_DISMISS" default:"1500ms"`
	SaleSuccessDismiss   time.Duration `envconfig:"RENTPOS_NOTIFY_SALE_SUCCESS_DISMISS" default:"2000ms"`
	RentalSuccessDismiss time.Duration `envconfig:"RENTPOS_NOTIFY_RENTAL_SUCCESS_DISMISS" default:"1800ms"`
	PublishToRedis       bool          `envconfig:"RENTPOS_NOTIFY_PUBLISH_REDIS" default:"true"`
}

type IdempotencyConfig struct {
	CheckoutTTL time.Duration `envconfig:"RENTPOS_IDEMPOTENCY_CHECKOUT_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	PersistenceMode string `envconfig:"RENTPOS_PERSISTENCE_MODE" default:"remote"`
	UseSQLite       bool   `envconfig:"RENTPOS_USE_SQLITE" default:"false"`
	AutoMigrate     bool   `envconfig:"RENTPOS_AUTO_MIGRATE" default:"false"`
}

// IsLocal reports whether confirmed checkouts are written to the local ledger.
func (f FeatureFlagsConfig) IsLocal() bool {
	return strings.EqualFold(strings.TrimSpace(f.PersistenceMode), PersistenceLocal)
}

// IsRemote reports whether confirmed checkouts are forwarded to the REST backend.
func (f FeatureFlagsConfig) IsRemote() bool {
	return strings.EqualFold(strings.TrimSpace(f.PersistenceMode), PersistenceRemote)
}

func (f FeatureFlagsConfig) validate() error {
	if f.IsLocal() || f.IsRemote() {
		return nil
	}
	return fmt.Errorf("%s must be %q or %q, got %q", EnvPersistenceMode, PersistenceRemote, PersistenceLocal, f.PersistenceMode)
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"RENTPOS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
