package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds every environment-specific setting of the application.
type Config struct {
	Env         string
	Port        string
	Database    DatabaseConfig
	Auth        AuthConfig
	UploadDir   string
	MaxUploadMB int64
	CORSOrigins []string
	Admin       AdminSeed
}

type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// AdminSeed describes the administrator created at startup when missing.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

func (a AdminSeed) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads the configuration from the environment. Call godotenv.Load first
// to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         getEnv("APP_ENV", EnvDevelopment),
		Port:        getEnv("PORT", "8080"),
		UploadDir:   getEnv("UPLOAD_DIR", "static/uploads"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		Admin: AdminSeed{
			Username: os.Getenv("ADMIN_USERNAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "16"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB %q", os.Getenv("MAX_UPLOAD_MB"))
	}
	cfg.MaxUploadMB = maxUpload

	cfg.Database, err = loadDatabase()
	if err != nil {
		return nil, err
	}

	cfg.Auth, err = loadAuth(cfg.IsProduction())
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadDatabase() (DatabaseConfig, error) {
	db := DatabaseConfig{
		Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		Path:   getEnv("DB_PATH", "blog.db"),
	}

	switch db.Driver {
	case "sqlite":
	case "postgres":
		db.DSN = os.Getenv("DATABASE_URL")
		if db.DSN == "" {
			db.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				getEnv("DB_HOST", "localhost"),
				getEnv("DB_PORT", "5432"),
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASSWORD"),
				os.Getenv("DB_NAME"),
				getEnv("DB_SSLMODE", "disable"),
			)
		}
	default:
		return db, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	return db, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
