package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStoreRoundTrip(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte(`[{"id":1,"subject":"数学"}]`)
	require.NoError(t, store.Save(context.Background(), "homework.json", payload))

	data, ok, err := store.Load(context.Background(), "homework.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, data)
}

func TestFilesystemStoreLoadAbsent(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	data, ok, err := store.Load(context.Background(), "missing.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}
