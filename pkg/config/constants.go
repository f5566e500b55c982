package config

const (
	EnvPrefix = "RENTPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	PersistenceRemote = "remote"
	PersistenceLocal  = "local"
)

const (
	EnvAppEnv          = "RENTPOS_APP_ENV"
	EnvPort            = "RENTPOS_APP_PORT"
	EnvDBDSN           = "RENTPOS_DB_DSN"
	EnvDBHost          = "RENTPOS_DB_HOST"
	EnvDBUser          = "RENTPOS_DB_USER"
	EnvDBName          = "RENTPOS_DB_NAME"
	EnvRedisURL        = "RENTPOS_REDIS_URL"
	EnvBackendBaseURL  = "RENTPOS_BACKEND_BASE_URL"
	EnvBackendToken    = "RENTPOS_BACKEND_TOKEN"
	EnvPersistenceMode = "RENTPOS_PERSISTENCE_MODE"
	EnvUseSQLite       = "RENTPOS_USE_SQLITE"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
