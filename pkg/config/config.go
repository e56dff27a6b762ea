package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Reminders RemindersConfig `yaml:"reminders"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // "sqlite" or "postgres"
	DSN  string `yaml:"dsn"`
	Path string `yaml:"path"` // For SQLite: file path
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type RemindersConfig struct {
	Enabled bool   `yaml:"enabled"`
	RunAt   string `yaml:"run_at"` // "HH:MM", server local time
}

// Load builds configuration from environment variables (a .env file is
// honored if present). When MEDIKA_CONFIG points at a YAML file, values
// from that file take precedence over the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := getEnv("DB_TYPE", "sqlite")
	dsn, dbPath := buildDSN(dbType)

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Type: dbType,
			DSN:  dsn,
			Path: dbPath,
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "change-me-in-production"),
			TTL:    24 * time.Hour,
		},
		Reminders: RemindersConfig{
			Enabled: getEnv("REMINDERS_ENABLED", "true") == "true",
			RunAt:   getEnv("REMINDERS_RUN_AT", "07:00"),
		},
	}

	if path := os.Getenv("MEDIKA_CONFIG"); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// overlayFile merges a YAML config file on top of env-derived values.
func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func buildDSN(dbType string) (string, string) {
	if dbType == "postgres" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "postgres")
		dbName := getEnv("DB_NAME", "medika")
		sslMode := getEnv("DB_SSLMODE", "disable")

		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbHost, dbPort, dbUser, dbPassword, dbName, sslMode,
		)
		return dsn, ""
	}

	// SQLite is the development default.
	dbPath := getEnv("SQLITE_PATH", "./data/medika.db")
	dsn := dbPath + "?mode=rwc&cache=shared&timeout=5000"
	return dsn, dbPath
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
