//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/signup/internal/domain"
)

func TestRegistryRosterSemantics(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("signup"),
		postgrescontainer.WithUsername("signup"),
		postgrescontainer.WithPassword("signup"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	registry := NewRegistry(pool)
	require.NoError(t, registry.Seed(ctx, domain.SeedActivities()))
	// A second seed pass must be a no-op.
	require.NoError(t, registry.Seed(ctx, domain.SeedActivities()))

	activities, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 9)
	require.Contains(t, activities["Chess Club"].Participants, "michael@mergington.edu")
	require.Len(t, activities["Basketball Team"].Participants, 1)

	err = registry.Signup(ctx, "Knitting Circle", "student@mergington.edu")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	err = registry.Signup(ctx, "Chess Club", "michael@mergington.edu")
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	require.NoError(t, registry.Signup(ctx, "Chess Club", "newstudent@mergington.edu"))

	activities, err = registry.List(ctx)
	require.NoError(t, err)
	require.Contains(t, activities["Chess Club"].Participants, "newstudent@mergington.edu")

	require.NoError(t, registry.Unregister(ctx, "Chess Club", "newstudent@mergington.edu"))

	err = registry.Unregister(ctx, "Chess Club", "newstudent@mergington.edu")
	require.ErrorIs(t, err, domain.ErrNotRegistered)

	activities, err = registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities["Chess Club"].Participants, 2)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
