package services

import (
	"context"
	"fmt"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Redis        string            `json:"redis"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, key, msg string, err error) {
	r.Status = "unhealthy"
	r.Details[key] = err.Error()
	if r.ErrorMessage == "" {
		r.ErrorMessage = fmt.Sprintf("%s: %v", msg, err)
	} else {
		r.ErrorMessage += fmt.Sprintf("; %s: %v", msg, err)
	}
	log.Warn().Err(err).Str("component", component).Msg("health check failed")
}

// HealthCheck pings the database and, when configured, Redis
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "database_error", "Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		result.fail("database", "database_ping_error", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
	}

	if rdb == nil {
		result.Redis = "disabled"
	} else if err := rdb.Ping(ctx).Err(); err != nil {
		result.Redis = "unreachable"
		result.fail("redis", "redis_error", "Redis ping failed", err)
	} else {
		result.Redis = "ok"
	}

	if result.Status == "healthy" {
		log.Debug().Msg("health check passed")
	}
	return result
}
