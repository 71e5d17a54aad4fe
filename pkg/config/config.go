package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Redis        RedisConfig
	DB           DBConfig
	GCP          GCPConfig
	Auth         AuthConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	Contact      ContactConfig
	PubSub       PubSubConfig
	Sendgrid     SendgridConfig
	Eventing     EventingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"FIREPLAY_APP_ENV" required:"true"`
	Port           string   `envconfig:"FIREPLAY_APP_PORT" default:"8080"`
	LogLevel       string   `envconfig:"FIREPLAY_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"FIREPLAY_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"FIREPLAY_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"FIREPLAY_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"FIREPLAY_REDIS_URL"`
	Address      string        `envconfig:"FIREPLAY_REDIS_ADDR"`
	Password     string        `envconfig:"FIREPLAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIREPLAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIREPLAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIREPLAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIREPLAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIREPLAY_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FIREPLAY_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// DBConfig is only consulted when the SQL remote cart store is selected.
type DBConfig struct {
	DSN             string        `envconfig:"FIREPLAY_DB_DSN"`
	MaxOpenConns    int           `envconfig:"FIREPLAY_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"FIREPLAY_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FIREPLAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIREPLAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"FIREPLAY_GCP_PROJECT_ID" required:"true"`
	CredentialsFile string `envconfig:"FIREPLAY_GOOGLE_APPLICATION_CREDENTIALS"`
}

type AuthConfig struct {
	Provider  string `envconfig:"FIREPLAY_AUTH_PROVIDER" default:"firebase"`
	JWTSecret string `envconfig:"FIREPLAY_JWT_SECRET"`
	JWTIssuer string `envconfig:"FIREPLAY_JWT_ISSUER" default:"fireplay"`
}

type CatalogConfig struct {
	Source         string        `envconfig:"FIREPLAY_CATALOG_SOURCE" default:"mock"`
	RAWGBaseURL    string        `envconfig:"FIREPLAY_RAWG_BASE_URL" default:"https://api.rawg.io/api"`
	RAWGAPIKey     string        `envconfig:"FIREPLAY_RAWG_API_KEY"`
	RequestTimeout time.Duration `envconfig:"FIREPLAY_CATALOG_REQUEST_TIMEOUT" default:"10s"`
	MaxRetries     uint64        `envconfig:"FIREPLAY_CATALOG_MAX_RETRIES" default:"2"`
	CacheTTL       time.Duration `envconfig:"FIREPLAY_CATALOG_CACHE_TTL" default:"5m"`
}

type CartConfig struct {
	RemoteStore      string        `envconfig:"FIREPLAY_CART_REMOTE_STORE" default:"firestore"`
	LocalTTL         time.Duration `envconfig:"FIREPLAY_CART_LOCAL_TTL" default:"720h"`
	SessionIdleTTL   time.Duration `envconfig:"FIREPLAY_CART_SESSION_IDLE_TTL" default:"30m"`
	JanitorInterval  time.Duration `envconfig:"FIREPLAY_CART_JANITOR_INTERVAL" default:"1m"`
	DeviceCookieName string        `envconfig:"FIREPLAY_DEVICE_COOKIE_NAME" default:"fp_device"`
	CookieSecure     bool          `envconfig:"FIREPLAY_DEVICE_COOKIE_SECURE" default:"true"`
}

type ContactConfig struct {
	RateLimitWindow   time.Duration `envconfig:"FIREPLAY_CONTACT_RATE_LIMIT_WINDOW" default:"10m"`
	RateLimitPerIP    int           `envconfig:"FIREPLAY_CONTACT_RATE_LIMIT_PER_IP" default:"5"`
	RateLimitPerEmail int           `envconfig:"FIREPLAY_CONTACT_RATE_LIMIT_PER_EMAIL" default:"3"`
}

type PubSubConfig struct {
	ContactTopic        string `envconfig:"FIREPLAY_PUBSUB_CONTACT_TOPIC"`
	ContactSubscription string `envconfig:"FIREPLAY_PUBSUB_CONTACT_SUBSCRIPTION"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"FIREPLAY_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"FIREPLAY_SENDGRID_FROM_EMAIL" default:"info@fireplay.com"`
	FromName    string `envconfig:"FIREPLAY_SENDGRID_FROM_NAME" default:"FirePlay"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"FIREPLAY_EVENTING_IDEMPOTENCY_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FIREPLAY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FIREPLAY_AUTO_MIGRATE" default:"false"`
}

// UsesSQLCart reports whether account carts live in the relational store.
func (c CartConfig) UsesSQLCart() bool {
	return strings.EqualFold(strings.TrimSpace(c.RemoteStore), CartRemoteSQL)
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Auth.Provider)) {
	case AuthProviderFirebase:
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvJWTSecret, EnvAuthProvider, AuthProviderJWT)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvAuthProvider, c.Auth.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(c.Catalog.Source)) {
	case CatalogSourceMock:
	case CatalogSourceRAWG:
		if c.Catalog.RAWGAPIKey == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvRAWGAPIKey, EnvCatalogSource, CatalogSourceRAWG)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Catalog.Source)
	}

	switch strings.ToLower(strings.TrimSpace(c.Cart.RemoteStore)) {
	case CartRemoteFirestore:
	case CartRemoteSQL:
		if c.DB.DSN == "" && !c.FeatureFlags.UseSQLite {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCartRemoteStore, CartRemoteSQL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCartRemoteStore, c.Cart.RemoteStore)
	}

	if c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("either %s or %s is required", EnvRedisURL, EnvRedisAddr)
	}
	return nil
}
