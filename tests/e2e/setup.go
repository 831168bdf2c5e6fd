//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bay-scheduler/cmd/bootstrap"
	"bay-scheduler/cmd/bootstrap/components"
	"bay-scheduler/internal/infra/db"
	"bay-scheduler/internal/pkg/config"
	"bay-scheduler/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "bay"
	pgPassword = "bay-e2e"
	pgPort     = nat.Port("5432/tcp")

	schemaFile = "migrations/001_initial_schema.sql"
)

var (
	sharedPG     *pgContainer
	sharedPGOnce sync.Once
	sharedPGErr  error
)

// pgContainer is one Postgres server shared by every suite in the test binary.
type pgContainer struct {
	container testcontainers.Container
	host      string
	port      nat.Port
}

func (p *pgContainer) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, p.host, p.port.Port(), database)
}

func postgresContainer(t *testing.T) *pgContainer {
	t.Helper()
	sharedPGOnce.Do(func() {
		sharedPG, sharedPGErr = startPostgres()
	})
	require.NoError(t, sharedPGErr, "failed to start postgres container")
	return sharedPG
}

func startPostgres() (*pgContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
			},
			// durability is irrelevant for throwaway databases
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=256m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "full_page_writes=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port.Port())
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "bay-scheduler-e2e"},
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return nil, err
	}
	return &pgContainer{container: c, host: host, port: port}, nil
}

// createDatabase creates an isolated database for one suite and drops it on cleanup.
func createDatabase(t *testing.T, pg *pgContainer) config.DBConfig {
	t.Helper()
	name := "bay_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	admin, err := pgxpool.New(ctx, pg.dsn("postgres"))
	require.NoError(t, err)
	defer admin.Close()

	// CREATE DATABASE races with template1 locks when suites start together
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying create database", "database", name, "attempt", attempt, "error", err.Error())
		time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
	}
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, pg.dsn("postgres"))
		if err != nil {
			slog.Warn("drop database skipped", "database", name, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("drop database failed", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     pg.host,
		Port:     pg.port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 8,
	}
}

func applySchema(ctx context.Context, pool *pgxpool.Pool) error {
	// go test runs with the package directory as working directory
	var sql []byte
	var err error
	for _, dir := range []string{".", "..", filepath.Join("..", ".."), filepath.Join("..", "..", "..")} {
		if sql, err = os.ReadFile(filepath.Join(dir, schemaFile)); err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", schemaFile, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s: %w", schemaFile, err)
	}
	return nil
}

// startApp boots the production fx graph against the suite database with the postgres store,
// so commits run through the exclusion constraint rather than the in-memory store.
func startApp(t *testing.T, dbConfig config.DBConfig) (*gin.Engine, config.Config) {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.DB = dbConfig
	cfg.Storage.Driver = config.StorageDriverPostgres

	var router *gin.Engine
	app := fx.New(
		fx.Supply(cfg, cfg.Scheduling),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.RegistryModule,
		bootstrap.MetricsModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start application")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("application stop failed", "error", err.Error())
		}
	})
	return router, cfg
}

// SharedSuite gives each e2e suite its own database, a running application and a direct pool
// for fixtures and assertions.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	dbConfig := createDatabase(t, postgresContainer(t))

	pool, closePool, err := db.Connect(context.Background(), dbConfig)
	require.NoError(t, err)
	t.Cleanup(closePool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, applySchema(ctx, pool))

	s.DB = pool
	s.Router, s.Config = startApp(t, dbConfig)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset bookings")
}
