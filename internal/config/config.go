package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is loaded once at startup and passed to every component that needs it.
// Nothing mutates it after Load returns.
type Config struct {
	// Database; DB_DRIVER=sqlite stores everything in DB_PATH instead of Postgres
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBPath     string `env:"DB_PATH" envDefault:"accounts.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"accounts_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// JWT
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTExpiration     time.Duration `env:"JWT_EXPIRATION" envDefault:"3600s"`
	EmailVerifyExpiry time.Duration `env:"EMAIL_VERIFY_EXPIRY" envDefault:"20m"`

	// Admin
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	PublicURL   string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`

	// Tenant registry
	TenantsConfigPath string `env:"TENANTS_CONFIG_PATH" envDefault:"tenants.json"`

	// SMTP; an empty host switches the mailer to log-only delivery
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@localhost"`

	// Rate limits (fixed window, per client IP)
	RateLimitMax            int           `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindow         time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	AuthRateLimitMax        int           `env:"AUTH_RATE_LIMIT_MAX" envDefault:"3"`
	AuthRateLimitWindow     time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"1s"`
	RegisterRateLimitMax    int           `env:"REGISTER_RATE_LIMIT_MAX" envDefault:"2"`
	RegisterRateLimitWindow time.Duration `env:"REGISTER_RATE_LIMIT_WINDOW" envDefault:"1s"`

	// Logging
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`

	// Error tracking
	SentryDSN string `env:"SENTRY_DSN"`
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
}

// Load parses the process environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	}
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite))
	}
	if c.DBDriver == DriverPostgres && c.DBPassword == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.EmailVerifyExpiry <= 0 {
		errs = append(errs, errors.New("EMAIL_VERIFY_EXPIRY must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

// SMTPEnabled reports whether outgoing mail should go through SMTP.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
