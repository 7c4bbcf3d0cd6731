package migration

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/ecclesia/internal/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/app?sslmode=disable", driverURL("postgres://u:p@db:5432/app?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/app", driverURL("postgresql://u@db/app"))
	assert.Equal(t, "pgx5://already", driverURL("pgx5://already"))
}

func TestUpDown(t *testing.T) {
	dsn := testkit.Postgres(t)

	require.NoError(t, Up(dsn))
	require.NoError(t, Up(dsn))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	defer pool.Close()

	var exists bool
	err = pool.QueryRow(context.Background(), `SELECT to_regclass('public.members') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, Down(dsn))

	err = pool.QueryRow(context.Background(), `SELECT to_regclass('public.members') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists)
}
