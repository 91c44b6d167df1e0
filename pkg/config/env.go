package config

const EnvPrefix = "CATALOG"

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	EnvProjectName     = "CATALOG_PROJECT_NAME"
	EnvVersion         = "CATALOG_VERSION"
	EnvAppEnv          = "CATALOG_APP_ENV"
	EnvPort            = "CATALOG_APP_PORT"
	EnvDebug           = "CATALOG_DEBUG"
	EnvAPIPrefix       = "CATALOG_API_PREFIX"
	EnvLogLevel        = "CATALOG_LOG_LEVEL"
	EnvShutdownTimeout = "CATALOG_HTTP_SHUTDOWN_TIMEOUT"
	EnvAllowedHosts    = "CATALOG_ALLOWED_HOSTS"
	EnvDatabaseURL     = "DATABASE_URL"
)
