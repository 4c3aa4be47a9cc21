package db

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	d, err := NewDatabase(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestRegisterUser_RoundTrip(t *testing.T) {
	d := newTestDatabase(t)

	exists, err := d.UserExists(42)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, d.RegisterUser(42, "Alice"))

	exists, err = d.UserExists(42)
	require.NoError(t, err)
	require.True(t, exists)

	name, err := d.Username(42)
	require.NoError(t, err)
	require.Equal(t, "Alice", name)
}

func TestRegisterUser_UpdatesDisplayName(t *testing.T) {
	d := newTestDatabase(t)

	require.NoError(t, d.RegisterUser(42, "Alice"))
	require.NoError(t, d.RegisterUser(42, "AliceRenamed"))

	name, err := d.Username(42)
	require.NoError(t, err)
	require.Equal(t, "AliceRenamed", name)
}
