package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "calls.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openStore(t)

	err := store.Record(Entry{
		Contract:   "UserAPI",
		Operation:  "getUser",
		Verb:       "GET",
		URL:        "http://api.test:80/users/42",
		Status:     200,
		Outcome:    "response",
		DurationMs: 12,
	})
	require.NoError(t, err)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "getUser", entries[0].Operation)
	assert.Equal(t, 200, entries[0].Status)
	assert.NotEmpty(t, entries[0].ID, "an id is assigned when missing")
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestStore_RecentNewestFirst(t *testing.T) {
	store := openStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(Entry{
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
			Contract:   "API",
			Operation:  fmt.Sprintf("op%d", i),
			Verb:       "GET",
			URL:        "http://api.test/x",
			Outcome:    "response",
		}))
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "op2", entries[0].Operation)
	assert.Equal(t, "op1", entries[1].Operation)
}

func TestStore_CancelledOutcome(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Record(Entry{
		Contract:  "API",
		Operation: "slow",
		Verb:      "GET",
		URL:       "http://api.test/slow",
		Outcome:   "cancelled",
	}))

	entries, err := store.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", entries[0].Outcome)
	assert.Equal(t, 0, entries[0].Status)
}

func TestStore_EmptyRecent(t *testing.T) {
	store := openStore(t)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
