//go:build integration

// Package testinfra starts throwaway PostgreSQL and Redis containers for
// integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultPostgresImage = "postgres:16-alpine"
	DefaultRedisImage    = "redis:7-alpine"

	PostgresUser     = "wannawatch"
	PostgresPassword = "wannawatch"
	PostgresDB       = "wannawatch"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// Container is a started container with its mapped address.
type Container struct {
	testcontainers.Container
	Hostname string
	HostPort string
}

func NewPostgresContainer(ctx context.Context) (*Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultPostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     PostgresUser,
			"POSTGRES_PASSWORD": PostgresPassword,
			"POSTGRES_DB":       PostgresDB,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithStartupTimeout(90 * time.Second),
	}
	container, err := start(ctx, req)
	if err != nil {
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}
	container.HostPort = mapped.Port()
	return container, nil
}

func NewRedisContainer(ctx context.Context) (*Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultRedisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := start(ctx, req)
	if err != nil {
		return nil, err
	}
	mapped, err := container.MappedPort(ctx, "6379")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}
	container.HostPort = mapped.Port()
	return container, nil
}

func start(ctx context.Context, req testcontainers.ContainerRequest) (*Container, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s container: %w", req.Image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	return &Container{
		Container: container,
		Hostname:  host,
	}, nil
}

// CleanupContainer terminates the container and logs failures.
func CleanupContainer(t *testing.T, ctx context.Context, container *Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}
