package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"

	"trip_tracker/internal/points"
	"trip_tracker/internal/storage"
)

type Config struct {
	Port string

	DBDriver       storage.Driver
	DatabaseURL    string
	SQLitePath     string
	DBMaxOpenConns int
	TxTimeout      time.Duration
	AutoMigrate    bool

	AnonymityThreshold int64
	HeatmapCellLevel   int

	JWTSecret string
	AccessTTL time.Duration
	APIKeys   []string

	RateLimitRPS   float64
	RateLimitBurst int

	NATSURL           string
	NATSSubjectPrefix string

	LogDir            string
	LogLevel          string
	CORSAllowedOrigin string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on env vars")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		SQLitePath:        getEnv("SQLITE_PATH", "./data/trips.db"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-access-secret"),
		APIKeys:           splitList(os.Getenv("API_KEYS")),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "trips"),
		LogDir:            getEnv("LOG_DIR", "./logs"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}

	var err error
	if cfg.DBDriver, err = storage.ParseDriver(os.Getenv("DB_DRIVER")); err != nil {
		return nil, fmt.Errorf("invalid DB_DRIVER: %w", err)
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" && cfg.DBDriver != storage.DriverSQLite {
		cfg.DatabaseURL = buildDatabaseURL()
	}

	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.TxTimeout, err = getEnvDuration("DB_TX_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getEnvBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	threshold, err := getEnvInt("ANONYMITY_THRESHOLD", points.DefaultAnonymityThreshold)
	if err != nil {
		return nil, err
	}
	cfg.AnonymityThreshold = int64(threshold)

	if cfg.HeatmapCellLevel, err = getEnvInt("HEATMAP_CELL_LEVEL", 17); err != nil {
		return nil, err
	}
	if cfg.AccessTTL, err = getEnvDuration("ACCESS_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getEnvFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.AnonymityThreshold < points.DefaultAnonymityThreshold {
		errs = append(errs, fmt.Errorf("ANONYMITY_THRESHOLD must be at least %d, got %d", points.DefaultAnonymityThreshold, c.AnonymityThreshold))
	}
	if c.HeatmapCellLevel < 0 || c.HeatmapCellLevel > 30 {
		errs = append(errs, fmt.Errorf("HEATMAP_CELL_LEVEL must be within [0, 30], got %d", c.HeatmapCellLevel))
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TTL must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	return errors.Join(errs...)
}

// DSN is the connection string for the configured driver; a file path for sqlite.
func (c *Config) DSN() string {
	if c.DBDriver == storage.DriverSQLite {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

func buildDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "password")),
		Host:   getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432"),
		Path:   getEnv("DB_NAME", "trips"),
	}
	q := url.Values{}
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
