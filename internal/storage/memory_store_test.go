package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "tracks/u1/kick.wav", strings.NewReader("boom"), 4, "audio/wav"))

	info, err := store.Stat(ctx, "tracks/u1/kick.wav")
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
	assert.Equal(t, "audio/wav", info.ContentType)

	rc, _, err := store.Open(ctx, "tracks/u1/kick.wav")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "boom", string(data))

	require.NoError(t, store.Remove(ctx, "tracks/u1/kick.wav"))
	_, err = store.Stat(ctx, "tracks/u1/kick.wav")
	assert.True(t, errors.Is(err, ErrNotExist))
	assert.Empty(t, store.Keys())
}

func TestMemoryStorePutDoesNotReplace(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "finals/u1/mix.wav", strings.NewReader("first"), 5, "audio/wav"))
	err := store.Put(ctx, "finals/u1/mix.wav", strings.NewReader("second"), 6, "audio/wav")
	assert.True(t, errors.Is(err, ErrExists))

	rc, _, err := store.Open(ctx, "finals/u1/mix.wav")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}
