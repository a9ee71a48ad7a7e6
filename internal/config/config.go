package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port     string
	Env      string
	LogLevel string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBConnectionLimit int

	// Token configuration
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	// Redis configuration, empty address disables token revocation
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Visit scheduling policy
	Location           *time.Location
	VisitRestDay       time.Weekday
	VisitDailyCapacity int
	VisitWindowDays    int

	// Optional first admin account, created at startup when absent
	BootstrapAdminUsername string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	envFile, explicit := os.LookupEnv("ENV_FILE")
	if !explicit {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:                   getEnv("PORT", "3000"),
		Env:                    getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DBType:                 getEnv("DB_TYPE", "sqlite"),
		DBHost:                 getEnv("DB_HOST", "localhost"),
		DBPort:                 getEnv("DB_PORT", ""),
		DBDatabase:             getEnv("DB_DATABASE", ""),
		DBUser:                 getEnv("DB_USER", ""),
		DBPassword:             getEnv("DB_PASSWORD", ""),
		DBSSLMode:              getEnv("DB_SSLMODE", "disable"),
		DBConnectionLimit:      getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTTTL:                 getEnvAsDuration("JWT_TTL", 24*time.Hour),
		BcryptCost:             getEnvAsInt("BCRYPT_COST", 12),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		VisitDailyCapacity:     getEnvAsInt("VISIT_DAILY_CAPACITY", 3),
		VisitWindowDays:        getEnvAsInt("VISIT_WINDOW_DAYS", 30),
		BootstrapAdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort(cfg.DBType)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	restDay, err := parseWeekday(getEnv("VISIT_REST_DAY", "sunday"))
	if err != nil {
		return nil, err
	}
	cfg.VisitRestDay = restDay

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("JWT_SECRET is required and must be at least 16 characters")
	}
	if cfg.VisitDailyCapacity < 1 {
		return nil, fmt.Errorf("VISIT_DAILY_CAPACITY must be at least 1")
	}
	if cfg.VisitWindowDays < 1 {
		return nil, fmt.Errorf("VISIT_WINDOW_DAYS must be at least 1")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func defaultPort(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	case "sqlserver", "mssql":
		return "1433"
	}
	return ""
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid VISIT_REST_DAY: %q", s)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration syntax, e.g. 24h or 90m
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
