package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresUser     = "caredonate"
	PostgresPassword = "caredonate-secret"
	PostgresDatabase = "caredonate"
)

// Containers are throwaway Postgres and Redis instances
type Containers struct {
	Postgres testcontainers.Container
	Redis    testcontainers.Container

	PostgresHost string
	PostgresPort string
	RedisAddr    string
}

// Terminate stops whatever was started. t may be nil outside of tests.
func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.Redis != nil {
		if err := tc.Redis.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Redis: %v", err)
		}
	}
	if tc.Postgres != nil {
		if err := tc.Postgres.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Postgres: %v", err)
		}
	}
}

// EnvLines renders the settings a server needs to use the containers
func (tc *Containers) EnvLines() []string {
	lines := []string{
		"DB_TYPE=postgres",
		"DB_HOST=" + tc.PostgresHost,
		"DB_PORT=" + tc.PostgresPort,
		"DB_DATABASE=" + PostgresDatabase,
		"DB_USER=" + PostgresUser,
		"DB_PASSWORD=" + PostgresPassword,
		"DB_SSLMODE=disable",
	}
	if tc.RedisAddr != "" {
		lines = append(lines, "REDIS_ADDR="+tc.RedisAddr)
	}
	return lines
}

// StartContainers starts Postgres and, when withRedis is set, Redis.
// Images can be overridden with POSTGRES_IMAGE and REDIS_IMAGE.
func StartContainers(ctx context.Context, t *testing.T, withRedis bool) (*Containers, error) {
	tc := &Containers{}

	pgPort, err := nat.NewPort("tcp", "5432")
	if err != nil {
		return nil, err
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("POSTGRES_IMAGE", "postgres:16-alpine"),
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     PostgresUser,
				"POSTGRES_PASSWORD": PostgresPassword,
				"POSTGRES_DB":       PostgresDatabase,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(pgPort),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}
	tc.Postgres = pg

	host, err := pg.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	mapped, err := pg.MappedPort(ctx, pgPort)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	tc.PostgresHost = host
	tc.PostgresPort = mapped.Port()
	logMessage(t, "Postgres listening on %s:%s", tc.PostgresHost, tc.PostgresPort)

	if !withRedis {
		return tc, nil
	}

	redisPort, err := nat.NewPort("tcp", "6379")
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        imageOr("REDIS_IMAGE", "redis:7-alpine"),
			ExposedPorts: []string{string(redisPort)},
			WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start redis: %w", err)
	}
	tc.Redis = rc

	redisHost, err := rc.Host(ctx)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	redisMapped, err := rc.MappedPort(ctx, redisPort)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	tc.RedisAddr = redisHost + ":" + redisMapped.Port()
	logMessage(t, "Redis listening on %s", tc.RedisAddr)

	return tc, nil
}

func imageOr(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
