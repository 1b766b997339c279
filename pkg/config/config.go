package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is passed to envconfig; individual fields pin their full names.
const EnvPrefix = "METAPHARM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "METAPHARM_DB_DSN"
	EnvDBHost = "METAPHARM_DB_HOST"
	EnvDBUser = "METAPHARM_DB_USER"
	EnvDBName = "METAPHARM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Cart          CartConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"METAPHARM_APP_ENV" required:"true"`
	Port         string `envconfig:"METAPHARM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"METAPHARM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"METAPHARM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"METAPHARM_DB_DSN"`
	Driver string `envconfig:"METAPHARM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"METAPHARM_DB_HOST"`
	LegacyPort     int    `envconfig:"METAPHARM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"METAPHARM_DB_USER"`
	LegacyPassword string `envconfig:"METAPHARM_DB_PASSWORD"`
	LegacyName     string `envconfig:"METAPHARM_DB_NAME"`
	LegacySSLMode  string `envconfig:"METAPHARM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"METAPHARM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"METAPHARM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"METAPHARM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"METAPHARM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"METAPHARM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"METAPHARM_REDIS_ADDR"`
	Password     string        `envconfig:"METAPHARM_REDIS_PASSWORD"`
	DB           int           `envconfig:"METAPHARM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"METAPHARM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"METAPHARM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"METAPHARM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"METAPHARM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"METAPHARM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"METAPHARM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"METAPHARM_JWT_ISSUER" default:"metapharm"`
	ExpirationMinutes int    `envconfig:"METAPHARM_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"METAPHARM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"METAPHARM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"METAPHARM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"METAPHARM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"METAPHARM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"METAPHARM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"METAPHARM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"METAPHARM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"METAPHARM_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"METAPHARM_GCP_PROJECT_ID" required:"true"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"METAPHARM_PUBSUB_ORDERS_TOPIC" default:"mp-order-events"`
	OrdersSubscription string `envconfig:"METAPHARM_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"METAPHARM_CART_TTL" default:"720h"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"METAPHARM_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"METAPHARM_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"METAPHARM_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
