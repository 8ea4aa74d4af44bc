package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	DBDSN         string   `envconfig:"db_dsn"`
	ServerPort    string   `envconfig:"server_port" default:"8080"`
	SessionSecret string   `envconfig:"session_secret" required:"true"`
	Staff         []string `envconfig:"staff" default:"Amit,Prateek"`

	AdminEmail    string `envconfig:"admin_email" default:"admin@crm.local"`
	AdminPassword string `envconfig:"admin_password" default:"Admin123!"`
	AdminName     string `envconfig:"admin_name" default:"Admin"`

	AMQPURL      string `envconfig:"amqp_url"`
	AMQPExchange string `envconfig:"amqp_exchange" default:"crm.events"`

	LogLevel  string `envconfig:"log_level" default:"info"`
	LogFormat string `envconfig:"log_format" default:"json"`
	GinMode   string `envconfig:"gin_mode" default:"release"`
}

// Load reads .env (if present) and then the CRM_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("crm", &cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.DBDSN = strings.TrimSpace(cfg.DBDSN)
	if cfg.SessionSecret == "" {
		return nil, errors.New("CRM_SESSION_SECRET is not set")
	}

	staff := cfg.Staff[:0]
	for _, s := range cfg.Staff {
		if s = strings.TrimSpace(s); s != "" {
			staff = append(staff, s)
		}
	}
	if len(staff) == 0 {
		return nil, errors.New("CRM_STAFF must name at least one staff member")
	}
	cfg.Staff = staff

	return &cfg, nil
}

// Configured reports whether a backend database is set up. Without one the
// dashboard runs in demo mode: forms are disabled and auth is skipped.
func (c *Config) Configured() bool {
	return c.DBDSN != ""
}

// IsPostgres checks whether the DSN points at PostgreSQL rather than SQLite.
func (c *Config) IsPostgres() bool {
	dsn := c.DBDSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return true
	}
	// key=value form: host=... user=... dbname=...
	return strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=")
}

// SQLitePath extracts the file path from sqlite://path (or returns the DSN as is).
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DBDSN, "sqlite://")
}
