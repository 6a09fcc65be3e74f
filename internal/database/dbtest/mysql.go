package dbtest

import (
	"context"
	"testing"

	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/Tomlord1122/get-it-done/internal/database"
)

const mysqlImage = "mysql:8.0.36"

// MySQL starts a MySQL container and returns a Config pointing at it.
// The container is terminated when the test finishes. Skipped with -short.
func MySQL(t testing.TB) database.Config {
	t.Helper()
	skipShort(t)

	ctx := context.Background()
	ctr, err := tcmysql.Run(ctx, mysqlImage,
		tcmysql.WithDatabase(dbName),
		tcmysql.WithUsername(dbUser),
		tcmysql.WithPassword(dbPassword),
	)
	if err != nil {
		t.Fatalf("start mysql container: %v", err)
	}
	terminateOnCleanup(t, ctr)

	connStr, err := ctr.ConnectionString(ctx, "parseTime=true")
	if err != nil {
		t.Fatalf("mysql connection string: %v", err)
	}

	return testConfig(database.DriverMySQL, connStr)
}
