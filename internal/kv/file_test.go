package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Get(ctx, "erp_students")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "erp_students", []byte(`[{"id":1}]`)))

	got, err := store.Get(ctx, "erp_students")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	require.NoError(t, store.Set(ctx, "erp_students", []byte(`[]`)))
	got, err = store.Get(ctx, "erp_students")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestFileStoreKeys(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "erp_students", []byte(`[]`)))
	require.NoError(t, store.Set(ctx, "erp_fees", []byte(`[]`)))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"erp_students", "erp_fees"}, keys)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "erp_user_data", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, "erp_user_data"))

	_, err = store.Get(ctx, "erp_user_data")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "erp_user_data"))
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	payload := []byte(`{"role":"admin"}`)
	require.NoError(t, store.Set(ctx, "erp_user_data", payload))

	// Mutating the caller's slice must not change the stored document.
	payload[2] = 'X'

	got, err := store.Get(ctx, "erp_user_data")
	require.NoError(t, err)
	assert.Equal(t, `{"role":"admin"}`, string(got))
}
