// Package kvstoretest holds behaviour shared by every kvstore.RecordStore.
package kvstoretest

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/grocery-cart/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func RunRecordStoreTests(t *testing.T, records kvstore.RecordStore) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		v, ok, err := records.Get(t.Context(), gofakeit.UUID())
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		key := "cart_" + gofakeit.UUID()
		value := `[{"id":"p1","quantity":2}]`

		require.NoError(t, records.Set(t.Context(), key, value))

		v, ok, err := records.Get(t.Context(), key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, value, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		key := "cart_" + gofakeit.UUID()

		require.NoError(t, records.Set(t.Context(), key, "[]"))
		require.NoError(t, records.Set(t.Context(), key, `[{"id":"p2","quantity":1}]`))

		v, ok, err := records.Get(t.Context(), key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"p2","quantity":1}]`, v)
	})

	t.Run("utf-8 payload survives", func(t *testing.T) {
		key := "cart_" + gofakeit.UUID()
		value := `[{"id":"p3","name":"Rau muống","unit":"1 sản phẩm","quantity":1}]`

		require.NoError(t, records.Set(t.Context(), key, value))

		v, _, err := records.Get(t.Context(), key)
		require.NoError(t, err)
		assert.Equal(t, value, v)
	})

	t.Run("delete", func(t *testing.T) {
		key := "cart_" + gofakeit.UUID()

		require.NoError(t, records.Set(t.Context(), key, "[]"))
		require.NoError(t, records.Delete(t.Context(), key))

		_, ok, err := records.Get(t.Context(), key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete missing key", func(t *testing.T) {
		require.NoError(t, records.Delete(t.Context(), gofakeit.UUID()))
	})
}
