// Package testutil provides a disposable Postgres instance for
// integration tests, grounded on the teacher's internal/testutil/db.go:
// a testcontainers-go Postgres container migrated with
// golang-migrate/migrate, torn down at the end of the test.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB holds a connected database and the container backing it.
type TestDB struct {
	DB      *sqlx.DB
	ConnStr string

	container testcontainers.Container
}

// SetupTestDB starts a postgres:15 container, applies every migration
// under migrationsPath, and returns a connected TestDB.
func SetupTestDB(t *testing.T, migrationsPath string) *TestDB {
	t.Helper()
	ctx := context.Background()

	const user, pass, name = "geoflow", "geoflow", "geoflow_test"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       name,
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("map postgres port: %v", err)
	}
	connStr := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", user, pass, port.Port(), name)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open test db: %v", err)
	}

	for i := 0; ; i++ {
		if err := db.Ping(); err == nil {
			break
		} else if i == 9 {
			_ = container.Terminate(ctx)
			t.Fatalf("ping test db: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	m, err := migrate.New("file://"+migrationsPath, connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("init migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		_ = container.Terminate(ctx)
		t.Fatalf("apply migrations: %v", err)
	}

	return &TestDB{DB: db, ConnStr: connStr, container: container}
}

// Teardown closes the connection and stops the container.
func (td *TestDB) Teardown(t *testing.T) {
	t.Helper()
	if err := td.DB.Close(); err != nil {
		t.Errorf("close test db: %v", err)
	}
	if err := td.container.Terminate(context.Background()); err != nil {
		t.Errorf("terminate test container: %v", err)
	}
}
