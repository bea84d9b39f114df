package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/artusm/funny-learn-notifier/pkg/store"
)

func TestSaveAndGetReturnsACopy(t *testing.T) {
	s := store.NewMemoryStore(nil)
	ctx := context.Background()

	original := []byte{1, 2, 3}
	id, err := s.Save(ctx, original, 0)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	original[0] = 99
	got, ok := s.Get(ctx, id)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestSaveRejectsEmptyData(t *testing.T) {
	s := store.NewMemoryStore(nil)
	_, err := s.Save(context.Background(), nil, 0)
	require.Error(t, err)
}

func TestLatestTracksMostRecentSave(t *testing.T) {
	s := store.NewMemoryStore(nil)
	ctx := context.Background()

	_, err := s.Save(ctx, []byte("first"), 0)
	require.NoError(t, err)
	secondID, err := s.Save(ctx, []byte("second"), 0)
	require.NoError(t, err)

	data, id, ok := s.Latest(ctx)
	require.True(t, ok)
	require.Equal(t, secondID, id)
	require.Equal(t, []byte("second"), data)
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := store.NewMemoryStore(nil)
	_, _, ok := s.Latest(context.Background())
	require.False(t, ok)
}

func TestDeleteRemovesEntry(t *testing.T) {
	s := store.NewMemoryStore(nil)
	ctx := context.Background()

	id, err := s.Save(ctx, []byte("x"), time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, ok := s.Get(ctx, id)
	require.False(t, ok)
	_, _, ok = s.Latest(ctx)
	require.False(t, ok)
}

func TestTTLEviction(t *testing.T) {
	s := store.NewMemoryStore(nil)
	ctx := context.Background()

	id, err := s.Save(ctx, []byte("short-lived"), 20*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := s.Get(ctx, id)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
