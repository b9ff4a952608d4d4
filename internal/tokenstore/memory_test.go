package tokenstore

import (
	"context"
	"io/fs"
	"testing"

	"fitmrp-client/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var store Store = NewMemoryStore()

	_, err := store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNotFound)

	s := &auth.Session{UserID: "24", Token: "tok"}
	require.NoError(t, store.Save(ctx, "default", s))

	// later edits to the caller's value are not visible
	s.Token = "changed"

	got, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)

	require.NoError(t, store.Clear(ctx, "default"))
	_, err = store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "0001_create_credentials.sql", entries[0].Name())
}
