package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "shopledger"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App AppConfig
	DB  DBConfig
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
	Env          string `envconfig:"SHOPLEDGER_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHOPLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig carries the externally supplied connection fields. The DSN wins
// when set; otherwise it is assembled from the discrete fields.
type DBConfig struct {
	DSN    string `envconfig:"SHOPLEDGER_DB_DSN"`
	Driver string `envconfig:"SHOPLEDGER_DB_DRIVER" default:"postgres"`

	Server   string `envconfig:"SHOPLEDGER_DB_SERVER"`
	Port     int    `envconfig:"SHOPLEDGER_DB_PORT" default:"5432"`
	Database string `envconfig:"SHOPLEDGER_DB_DATABASE"`
	Username string `envconfig:"SHOPLEDGER_DB_USERNAME"`
	Password string `envconfig:"SHOPLEDGER_DB_PASSWORD"`
	SSLMode  string `envconfig:"SHOPLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}

	switch d.Driver {
	case DriverPostgres:
		if d.Server == "" || d.Database == "" || d.Username == "" {
			return fmt.Errorf("database config requires server, database, and username when no DSN is set")
		}
		d.DSN = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Server, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
		)
		return nil

	case DriverSQLite:
		if d.Database == "" {
			return fmt.Errorf("sqlite config requires a database path")
		}
		d.DSN = d.Database
		return nil

	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}
