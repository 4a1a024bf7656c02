package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"

	FormatPDF      = "pdf"
	FormatMarkdown = "md"
)

// minSecretLen is the shortest SESSION_SECRET accepted outside development.
const minSecretLen = 32

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DataDir        string        `mapstructure:"DATA_DIR"`
	OutputDir      string        `mapstructure:"OUTPUT_DIR"`
	ExportFormat   string        `mapstructure:"EXPORT_FORMAT"`
	CatalogFile    string        `mapstructure:"CATALOG_FILE"`
	StoreBackend   string        `mapstructure:"STORE_BACKEND"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	LoginRateLimit float64       `mapstructure:"LOGIN_RATE_LIMIT"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	PDFFont        string        `mapstructure:"PDF_FONT"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
}

var envKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "DATA_DIR", "OUTPUT_DIR", "EXPORT_FORMAT",
	"CATALOG_FILE", "STORE_BACKEND", "DATABASE_URL", "DB_MAX_CONNS",
	"DB_MIN_CONNS", "SESSION_SECRET", "SESSION_TTL", "LOGIN_RATE_LIMIT",
	"CORS_ORIGINS", "BODY_LIMIT", "PDF_FONT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("OUTPUT_DIR", "./pdfs")
	v.SetDefault("EXPORT_FORMAT", FormatPDF)
	v.SetDefault("STORE_BACKEND", BackendCSV)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("SESSION_TTL", "8h")
	v.SetDefault("LOGIN_RATE_LIMIT", 5)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 0 {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)
	cfg.ExportFormat = strings.ToLower(cfg.ExportFormat)

	if cfg.SessionSecret == "" && cfg.IsDev() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		log.Println("WARNING: SESSION_SECRET not set; using a random per-process key (development only).")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendCSV:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %q", BackendPostgres)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendCSV, BackendPostgres, c.StoreBackend)
	}

	if c.ExportFormat != FormatPDF && c.ExportFormat != FormatMarkdown {
		return fmt.Errorf("EXPORT_FORMAT must be %q or %q, got %q", FormatPDF, FormatMarkdown, c.ExportFormat)
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required outside development")
	}
	if c.IsProduction() && len(c.SessionSecret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in production, got %d", minSecretLen, len(c.SessionSecret))
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, minSecretLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
