// Package dbtest starts throwaway databases for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Tomlord1122/get-it-done/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	dbName        = "get_it_done"
	dbUser        = "get_it_done"
	dbPassword    = "beproductive"
)

// Backend names a storage driver and how to start a container for it.
type Backend struct {
	Name  string
	Start func(t testing.TB) database.Config
}

// Backends lists every supported driver.
var Backends = []Backend{
	{Name: database.DriverPostgres, Start: Postgres},
	{Name: database.DriverMySQL, Start: MySQL},
}

// Postgres starts a Postgres container and returns a Config pointing at it.
// The container is terminated when the test finishes. Skipped with -short.
func Postgres(t testing.TB) database.Config {
	t.Helper()
	skipShort(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	terminateOnCleanup(t, ctr)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	return testConfig(database.DriverPostgres, connStr)
}

// Open connects to a fresh Postgres container, migrates the schema and
// closes the pool on cleanup.
func Open(t testing.TB) database.Service {
	t.Helper()
	return OpenConfig(t, Postgres(t))
}

// OpenConfig connects with cfg, migrates the schema and closes the pool on
// cleanup.
func OpenConfig(t testing.TB, cfg database.Config) database.Service {
	t.Helper()

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("open %s database: %v", cfg.Driver, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func skipShort(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

func terminateOnCleanup(t testing.TB, ctr testcontainers.Container) {
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
}

func testConfig(driver, url string) database.Config {
	return database.Config{
		Driver:          driver,
		URL:             url,
		Database:        dbName,
		MaxIdleConns:    2,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Minute,
	}
}
