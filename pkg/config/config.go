package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	CORS     CORSConfig
	DB       DBConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.App.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	ProjectName        string `envconfig:"CATALOG_PROJECT_NAME" default:"Catalog API"`
	ProjectDescription string `envconfig:"CATALOG_PROJECT_DESCRIPTION" default:"Items and users CRUD API with validation, error handling and testing"`
	Version            string `envconfig:"CATALOG_VERSION" default:"0.1.0"`
	Env                string `envconfig:"CATALOG_APP_ENV" default:"development"`
	Port               string `envconfig:"CATALOG_APP_PORT" default:"8000"`
	Debug              bool   `envconfig:"CATALOG_DEBUG" default:"true"`
	APIPrefix          string `envconfig:"CATALOG_API_PREFIX" default:"/api"`
	LogLevel           string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack       bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a *AppConfig) normalize() {
	prefix := strings.TrimSpace(a.APIPrefix)
	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	a.APIPrefix = prefix
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"CATALOG_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"CATALOG_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"CATALOG_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"CATALOG_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type CORSConfig struct {
	AllowedHosts     []string `envconfig:"CATALOG_ALLOWED_HOSTS" default:"*"`
	AllowCredentials bool     `envconfig:"CATALOG_CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           int      `envconfig:"CATALOG_CORS_MAX_AGE" default:"300"`
}

// DBConfig selects the record store backend. An empty URL keeps records in
// process memory.
type DBConfig struct {
	URL string `envconfig:"DATABASE_URL"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Driver infers the gorm dialect from the URL scheme.
func (db DBConfig) Driver() string {
	url := strings.TrimSpace(db.URL)
	switch {
	case url == "":
		return DriverMemory
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite:"), strings.HasPrefix(url, "file:"), url == ":memory:":
		return DriverSQLite
	}
	return ""
}

// SQLiteDSN strips the sqlite:/// scheme the way SQLAlchemy-style URLs spell it.
func (db DBConfig) SQLiteDSN() string {
	url := strings.TrimSpace(db.URL)
	for _, prefix := range []string{"sqlite:///", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CATALOG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CATALOG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CATALOG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CATALOG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CATALOG_ARGON_KEY_LEN" default:"32"`
}

func (c *Config) validate() error {
	var errs error
	if strings.TrimSpace(c.App.Port) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if strings.TrimSpace(c.App.Version) == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s is required", EnvVersion))
	}
	if c.DB.Driver() == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s has an unsupported scheme", EnvDatabaseURL))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvShutdownTimeout))
	}
	if len(c.CORS.AllowedHosts) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must list at least one origin", EnvAllowedHosts))
	}
	return errs
}
