// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	BaseURL       string        `mapstructure:"BASE_URL"`
	FrontendURL   string        `mapstructure:"FRONTEND_URL"`

	// LinkedIn OAuth Configuration
	LinkedInClientID     string `mapstructure:"LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret string `mapstructure:"LINKEDIN_CLIENT_SECRET"`

	// Session Configuration
	SessionSecret        string        `mapstructure:"SESSION_SECRET"`
	SessionCookieName    string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL_HOURS"`
	SessionCookieSecure  bool          `mapstructure:"SESSION_COOKIE_SECURE"`
	SessionSweepSchedule string        `mapstructure:"SESSION_SWEEP_SCHEDULE"`
	OAuthStateCookieName string        `mapstructure:"OAUTH_STATE_COOKIE_NAME"`

	// Post-authentication redirect targets
	LoginRedirectURL     string `mapstructure:"LOGIN_REDIRECT_URL"`
	PostLoginRedirectURL string `mapstructure:"POST_LOGIN_REDIRECT_URL"`

	// Lead Storage Configuration
	LeadStore      string `mapstructure:"LEAD_STORE"` // "memory" or "database"
	RequiredFields string `mapstructure:"REQUIRED_FIELDS"`

	// Database Configuration (used when LEAD_STORE=database)
	DBDriver          string        `mapstructure:"DB_DRIVER"` // "postgres" or "sqlite"
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// RequiredFieldNames returns the configured required-field schema in order.
func (c *Config) RequiredFieldNames() []string {
	parts := strings.Split(c.RequiredFields, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	v.SetDefault("SESSION_COOKIE_NAME", "lead_session")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@hourly")
	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "oauth_state")

	v.SetDefault("LOGIN_REDIRECT_URL", "/login")
	v.SetDefault("POST_LOGIN_REDIRECT_URL", "/post-login")

	v.SetDefault("LEAD_STORE", "memory")
	v.SetDefault("REQUIRED_FIELDS", "Phone,Country,Industry,Annual Revenue,Employee Count,Capability Needed")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "leadgen_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("SQLITE_PATH", "leadgen.db")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute

	// In release mode the session cookie is always Secure.
	if cfg.GinMode == "release" {
		cfg.SessionCookieSecure = true
	}

	// Validation of required configs. The process must not start serving without these.
	var missing []string
	if strings.TrimSpace(cfg.LinkedInClientID) == "" {
		missing = append(missing, "LINKEDIN_CLIENT_ID")
	}
	if strings.TrimSpace(cfg.LinkedInClientSecret) == "" {
		missing = append(missing, "LINKEDIN_CLIENT_SECRET")
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("FATAL: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if len(cfg.RequiredFieldNames()) == 0 {
		return nil, fmt.Errorf("FATAL: REQUIRED_FIELDS must name at least one field")
	}

	switch cfg.LeadStore {
	case "memory", "database":
	default:
		return nil, fmt.Errorf("FATAL: LEAD_STORE must be 'memory' or 'database', got %q", cfg.LeadStore)
	}

	return &cfg, nil
}
