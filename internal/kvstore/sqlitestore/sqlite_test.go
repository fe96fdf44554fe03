package sqlitestore_test

import (
	"path/filepath"
	"testing"

	"github.com/nikolayk812/grocery-cart/internal/kvstore/kvstoretest"
	"github.com/nikolayk812/grocery-cart/internal/kvstore/sqlitestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	kvstoretest.RunRecordStoreTests(t, store)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.db")

	store, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(t.Context(), "cart_u1", `[{"id":"p1","quantity":1}]`))
	require.NoError(t, store.Close())

	reopened, err := sqlitestore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(t.Context(), "cart_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1","quantity":1}]`, v)
}
