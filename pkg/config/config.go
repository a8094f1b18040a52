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
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Payment       PaymentConfig
	Payout        PayoutConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
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
	Env          string `envconfig:"FURNIMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNIMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FURNIMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNIMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FURNIMARKET_DB_DSN"`
	Driver string `envconfig:"FURNIMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FURNIMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"FURNIMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FURNIMARKET_DB_USER"`
	LegacyPassword string `envconfig:"FURNIMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"FURNIMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"FURNIMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNIMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNIMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNIMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNIMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNIMARKET_REDIS_URL" required:"true"`
	Password     string        `envconfig:"FURNIMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNIMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNIMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNIMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNIMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNIMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNIMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FURNIMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FURNIMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FURNIMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FURNIMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FURNIMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FURNIMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FURNIMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FURNIMARKET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FURNIMARKET_LOGIN_RATE_WINDOW" default:"10m"`
	LoginIPLimit    int           `envconfig:"FURNIMARKET_LOGIN_RATE_IP_LIMIT" default:"30"`
	LoginEmailLimit int           `envconfig:"FURNIMARKET_LOGIN_RATE_EMAIL_LIMIT" default:"10"`
}

type PaymentConfig struct {
	StripeAPIKey string        `envconfig:"FURNIMARKET_STRIPE_API_KEY"`
	StripeEnv    string        `envconfig:"FURNIMARKET_STRIPE_ENV" default:"test"`
	Timeout      time.Duration `envconfig:"FURNIMARKET_PAYMENT_TIMEOUT" default:"5s"`
}

// Environment returns the normalized Stripe environment (test/live).
func (p PaymentConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.StripeEnv))
	if env == "" {
		return "test"
	}
	return env
}

type PayoutConfig struct {
	CommissionRate string `envconfig:"FURNIMARKET_PAYOUT_COMMISSION_RATE" default:"0.10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FURNIMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FURNIMARKET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FURNIMARKET_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FURNIMARKET_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FURNIMARKET_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"FURNIMARKET_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"FURNIMARKET_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"FURNIMARKET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"FURNIMARKET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"FURNIMARKET_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsAddr    string `envconfig:"FURNIMARKET_OUTBOX_METRICS_ADDR" default:":9464"`
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
