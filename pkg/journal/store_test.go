package journal

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Record(ctx, Entry{
			ID:       "call-" + strconv.Itoa(i),
			Method:   "GET",
			Path:     "/hello",
			Route:    "GET /hello",
			Outcome:  "ok",
			Status:   200,
			Duration: 1500 * time.Microsecond,
			At:       at.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "call-2", got[0].ID)
	assert.Equal(t, "call-1", got[1].ID)
	assert.Equal(t, 1500*time.Microsecond, got[0].Duration)
	assert.True(t, got[0].At.Equal(at.Add(2*time.Second)))
	assert.Equal(t, "GET /hello", got[0].Route)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_StampsTime(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Record(ctx, Entry{ID: "x", Method: "POST", Path: "/", Outcome: "not_found", Status: 404}))

	got, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].At.After(before))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{ID: "a", Method: "GET", Path: "/", Outcome: "ok", Status: 200}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
