package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "taskboard.db"), "")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("one")))
	require.NoError(t, s.Set(ctx, "k", []byte("two")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, s.Remove(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStoreBacksPersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.db")
	s, err := OpenBolt(path, "")
	require.NoError(t, err)

	want := sampleSnapshot("bolt")
	require.NoError(t, NewPersister(s).SaveSnapshot(want))
	require.NoError(t, s.Close())

	reopened, err := OpenBolt(path, "")
	require.NoError(t, err)
	defer reopened.Close()
	got, msg := NewPersister(reopened).Load()
	assert.Empty(t, msg)
	assert.Equal(t, want, got)
}

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	require.NoError(t, s.Set(ctx, "a", []byte("12345")))
	require.NoError(t, s.Set(ctx, "a", []byte("1234567890")))
	assert.ErrorIs(t, s.Set(ctx, "b", []byte("x")), ErrQuotaExceeded)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", string(got))
}
