package database

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/passwords"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrateAndEnsureAdmin(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "gallery.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	// second run is a no-op against the ledger
	require.NoError(t, Migrate(db))

	hasher := passwords.NewBcrypt(4)
	ctx := context.Background()
	require.NoError(t, EnsureAdmin(ctx, db, hasher, "admin", "password"))
	require.NoError(t, EnsureAdmin(ctx, db, hasher, "admin", "other"))

	var all []users.User
	require.NoError(t, db.Find(&all).Error)
	require.Len(t, all, 1)
	assert.Equal(t, users.RoleAdmin, all[0].Role)
	assert.True(t, hasher.Compare(all[0].PasswordHash, "password"))

	assert.Error(t, EnsureAdmin(ctx, db, hasher, "", ""))
}

func TestLookupMissesAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	db, err := Open(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var u users.User
	err = db.First(&u, "username = ?", "nobody").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "record not found")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "no_such_table", "real errors still reach the log")
}
