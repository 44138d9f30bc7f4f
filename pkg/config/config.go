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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Notifier      NotifierConfig
	Sendgrid      SendgridConfig
	SMTP          SMTPConfig
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
	Env            string   `envconfig:"MEDMART_APP_ENV" required:"true"`
	Port           string   `envconfig:"MEDMART_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"MEDMART_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"MEDMART_LOG_WARN_STACK" default:"false"`
	SiteName       string   `envconfig:"MEDMART_SITE_NAME" default:"Multi-Vendor Medicine Selling E-commerce Website"`
	AllowedOrigins []string `envconfig:"MEDMART_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDMART_DB_DSN"`
	Driver string `envconfig:"MEDMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDMART_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDMART_DB_USER"`
	LegacyPassword string `envconfig:"MEDMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local SQLite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDMART_REDIS_URL"`
	Address      string        `envconfig:"MEDMART_REDIS_ADDR"`
	Password     string        `envconfig:"MEDMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret     string `envconfig:"MEDMART_JWT_SECRET" required:"true"`
	Issuer     string `envconfig:"MEDMART_JWT_ISSUER" default:"medmart"`
	CookieName string `envconfig:"MEDMART_JWT_COOKIE_NAME" default:"token"`
}

type AuthRateLimitConfig struct {
	TokenWindow        time.Duration `envconfig:"MEDMART_AUTH_RATE_LIMIT_TOKEN_WINDOW" default:"1m"`
	TokenEmailLimit    int           `envconfig:"MEDMART_AUTH_RATE_LIMIT_TOKEN_EMAIL_LIMIT" default:"10"`
	TokenIPLimit       int           `envconfig:"MEDMART_AUTH_RATE_LIMIT_TOKEN_IP_LIMIT" default:"30"`
	RegisterWindow     time.Duration `envconfig:"MEDMART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MEDMART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"5"`
	RegisterIPLimit    int           `envconfig:"MEDMART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDMART_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"MEDMART_STRIPE_SECRET_KEY"`
	Env    string `envconfig:"MEDMART_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type NotifierConfig struct {
	Queue          string        `envconfig:"MEDMART_NOTIFIER_QUEUE" default:"emails"`
	Concurrency    int           `envconfig:"MEDMART_NOTIFIER_CONCURRENCY" default:"5"`
	MaxRetry       int           `envconfig:"MEDMART_NOTIFIER_MAX_RETRY" default:"5"`
	TaskTimeout    time.Duration `envconfig:"MEDMART_NOTIFIER_TASK_TIMEOUT" default:"30s"`
	EnqueueTimeout time.Duration `envconfig:"MEDMART_NOTIFIER_ENQUEUE_TIMEOUT" default:"5s"`
	MailProvider   string        `envconfig:"MEDMART_MAIL_PROVIDER" default:"log"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"MEDMART_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"MEDMART_SENDGRID_FROM_EMAIL"`
}

type SMTPConfig struct {
	Host     string `envconfig:"MEDMART_SMTP_HOST"`
	Port     int    `envconfig:"MEDMART_SMTP_PORT" default:"587"`
	Username string `envconfig:"MEDMART_SMTP_USERNAME"`
	Password string `envconfig:"MEDMART_SMTP_PASSWORD"`
	From     string `envconfig:"MEDMART_SMTP_FROM"`
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
