//go:build integration

package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diillson/cotizai-api/internal/adapter/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "cotizai",
				"POSTGRES_USER":     "cotizai",
				"POSTGRES_PASSWORD": "cotizai",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "falha ao iniciar o container postgres")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=cotizai password=cotizai dbname=cotizai sslmode=disable", host, port.Port())
}

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("integração com postgres pulada em -short")
	}

	db, err := database.NewDatabase(context.Background(), database.Config{
		Driver:          "postgres",
		DSN:             startPostgres(t),
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Hour,
		LogLevel:        logger.Silent,
		SlowThreshold:   time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.Equal(t, "postgres", db.Dialect())

	log := zaptest.NewLogger(t)
	exerciseUserRepository(t, database.NewUserRepository(db.DB(), log))
	exerciseOperacionRepository(t, database.NewOperacionRepository(db.DB(), log))
}
