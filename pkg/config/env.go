package config

const EnvPrefix = "MEDMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "MEDMART_APP_ENV"
	EnvPort     = "MEDMART_APP_PORT"
	EnvLogLevel = "MEDMART_LOG_LEVEL"

	EnvDBDSN    = "MEDMART_DB_DSN"
	EnvDBDriver = "MEDMART_DB_DRIVER"
	EnvDBHost   = "MEDMART_DB_HOST"
	EnvDBPort   = "MEDMART_DB_PORT"
	EnvDBUser   = "MEDMART_DB_USER"
	EnvDBPass   = "MEDMART_DB_PASSWORD"
	EnvDBName   = "MEDMART_DB_NAME"

	EnvRedisURL = "MEDMART_REDIS_URL"

	EnvJWTSecret = "MEDMART_JWT_SECRET"
	EnvJWTIssuer = "MEDMART_JWT_ISSUER"

	EnvStripeSecretKey = "MEDMART_STRIPE_SECRET_KEY"
	EnvStripeEnv       = "MEDMART_STRIPE_ENV"

	EnvMailProvider = "MEDMART_MAIL_PROVIDER"
	EnvCORSOrigins  = "MEDMART_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
