package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "MANDILINK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "MANDILINK_APP_ENV"
	EnvPort   = "MANDILINK_APP_PORT"

	EnvDBDSN  = "MANDILINK_DB_DSN"
	EnvDBHost = "MANDILINK_DB_HOST"
	EnvDBUser = "MANDILINK_DB_USER"
	EnvDBName = "MANDILINK_DB_NAME"

	EnvRedisURL = "MANDILINK_REDIS_URL"

	EnvJWTSecret              = "MANDILINK_JWT_SECRET"
	EnvJWTIssuer              = "MANDILINK_JWT_ISSUER"
	EnvJWTExpMins             = "MANDILINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MANDILINK_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
