package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	src, err := iofs.New(migrationsFS, "sql")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()

	body, err := io.ReadAll(up)
	require.NoError(t, err)
	for _, table := range []string{"permissions", "roles", "role_permissions", "users", "auctions", "bids"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestDownMigrationDropsEveryTable(t *testing.T) {
	src, err := iofs.New(migrationsFS, "sql")
	require.NoError(t, err)
	defer src.Close()

	down, _, err := src.ReadDown(1)
	require.NoError(t, err)
	defer down.Close()

	body, err := io.ReadAll(down)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(body), "DROP TABLE IF EXISTS"))
}
