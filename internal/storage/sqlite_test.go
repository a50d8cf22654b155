package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created along with its parents")
	assert.NoError(t, store.Close())
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveGame(LocalOwner, core.Snapshot{GameID: "garden", Currency: bignum.FromInt(5)}))
	require.NoError(t, store.Close())

	// Migrations are already applied; opening again must be a no-op.
	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	snap, err := store.LoadGame(LocalOwner, "garden")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 5.0, snap.Currency.Float64())
}

func TestSaveAndLoadGame(t *testing.T) {
	store := openTestStore(t)
	updated := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	snap := core.Snapshot{
		GameID:   "garden",
		Currency: bignum.New(1.234567890123, 4567),
		Peak:     bignum.New(9.87, 4570),
		Ticks:    123456,
		Tracks: []core.TrackSnapshot{
			{ID: "sprout", Level: 250, TotalSpent: bignum.New(3.3, 9)},
			{ID: "shrub", Level: 12, TotalSpent: bignum.FromInt(7777)},
		},
		UpdatedAt: updated,
	}
	require.NoError(t, store.SaveGame(LocalOwner, snap))

	got, err := store.LoadGame(LocalOwner, "garden")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, snap.GameID, got.GameID)
	assert.True(t, snap.Currency.Equal(got.Currency), "currency %v != %v", got.Currency, snap.Currency)
	assert.True(t, snap.Peak.Equal(got.Peak))
	assert.Equal(t, snap.Ticks, got.Ticks)
	assert.True(t, updated.Equal(got.UpdatedAt))
	require.Len(t, got.Tracks, 2)
	assert.Equal(t, "sprout", got.Tracks[0].ID)
	assert.Equal(t, int64(250), got.Tracks[0].Level)
	assert.True(t, snap.Tracks[0].TotalSpent.Equal(got.Tracks[0].TotalSpent))
	assert.Equal(t, "shrub", got.Tracks[1].ID)
}

func TestSaveGameReplacesTracks(t *testing.T) {
	store := openTestStore(t)

	first := core.Snapshot{
		GameID: "forge",
		Tracks: []core.TrackSnapshot{{ID: "bellows", Level: 3}, {ID: "anvil", Level: 1}},
	}
	require.NoError(t, store.SaveGame(LocalOwner, first))

	second := core.Snapshot{
		GameID: "forge",
		Ticks:  10,
		Tracks: []core.TrackSnapshot{{ID: "bellows", Level: 9}},
	}
	require.NoError(t, store.SaveGame(LocalOwner, second))

	got, err := store.LoadGame(LocalOwner, "forge")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(10), got.Ticks)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, int64(9), got.Tracks[0].Level)
}

func TestSaveGameRequiresID(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.SaveGame(LocalOwner, core.Snapshot{}))
	assert.Error(t, store.SaveGame("", core.Snapshot{GameID: "garden"}))
}

func TestLoadMissingGame(t *testing.T) {
	store := openTestStore(t)

	snap, err := store.LoadGame(LocalOwner, "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestDeleteSave(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveGame(LocalOwner, core.Snapshot{
		GameID: "garden",
		Tracks: []core.TrackSnapshot{{ID: "sprout", Level: 1}},
	}))

	deleted, err := store.DeleteSave(LocalOwner, "garden")
	require.NoError(t, err)
	assert.True(t, deleted)

	snap, err := store.LoadGame(LocalOwner, "garden")
	require.NoError(t, err)
	assert.Nil(t, snap)

	deleted, err = store.DeleteSave(LocalOwner, "garden")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListSaves(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveGame(LocalOwner, core.Snapshot{
		GameID:    "garden",
		Tracks:    []core.TrackSnapshot{{ID: "sprout", Level: 10}, {ID: "shrub", Level: 5}},
		UpdatedAt: base,
	}))
	require.NoError(t, store.SaveGame(LocalOwner, core.Snapshot{
		GameID:    "forge",
		UpdatedAt: base.Add(time.Hour),
	}))

	saves, err := store.ListSaves(LocalOwner)
	require.NoError(t, err)
	require.Len(t, saves, 2)

	assert.Equal(t, "forge", saves[0].GameID, "most recent first")
	assert.Equal(t, int64(0), saves[0].Levels)
	assert.Equal(t, "garden", saves[1].GameID)
	assert.Equal(t, int64(15), saves[1].Levels)
}

func TestRecordPeakKeepsBest(t *testing.T) {
	store := openTestStore(t)

	session, err := store.RecordPeak("", "garden", bignum.FromInt(500))
	require.NoError(t, err)
	require.NotEmpty(t, session, "an empty session should be assigned an ID")

	_, err = store.RecordPeak(session, "garden", bignum.FromInt(100))
	require.NoError(t, err)

	best, err := store.BestRecord("garden")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 500.0, best.Peak.Float64(), "a lower peak must not replace the record")

	_, err = store.RecordPeak(session, "garden", bignum.New(2, 400))
	require.NoError(t, err)

	records, err := store.TopRecords("garden", 10)
	require.NoError(t, err)
	require.Len(t, records, 1, "one row per session and game")
	assert.True(t, records[0].Peak.Equal(bignum.New(2, 400)))
	assert.Equal(t, session, records[0].SessionID)
}

func TestTopRecordsOrdering(t *testing.T) {
	store := openTestStore(t)

	peaks := []bignum.Number{
		bignum.FromInt(100),
		bignum.New(1, 500), // beyond float64: ordering must still hold
		bignum.FromInt(200),
		bignum.New(5, 40),
	}
	for _, p := range peaks {
		_, err := store.RecordPeak(NewSessionID(), "technique", p)
		require.NoError(t, err)
	}
	_, err := store.RecordPeak(NewSessionID(), "forge", bignum.New(1, 900))
	require.NoError(t, err)

	records, err := store.TopRecords("technique", 10)
	require.NoError(t, err)
	require.Len(t, records, 4)

	want := []bignum.Number{bignum.New(1, 500), bignum.New(5, 40), bignum.FromInt(200), bignum.FromInt(100)}
	for i, w := range want {
		assert.True(t, records[i].Peak.Equal(w), "record %d = %v, expected %v", i, records[i].Peak, w)
		assert.Equal(t, "technique", records[i].GameID)
	}

	limited, err := store.TopRecords("technique", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecordPeakIgnoresEmptyBalance(t *testing.T) {
	store := openTestStore(t)

	_, err := store.RecordPeak("session", "garden", bignum.Zero)
	require.NoError(t, err)

	best, err := store.BestRecord("garden")
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestClearRecords(t *testing.T) {
	store := openTestStore(t)
	_, err := store.RecordPeak("", "garden", bignum.FromInt(1))
	require.NoError(t, err)
	_, err = store.RecordPeak("", "forge", bignum.FromInt(1))
	require.NoError(t, err)

	require.NoError(t, store.ClearRecords("garden"))

	garden, err := store.TopRecords("garden", 10)
	require.NoError(t, err)
	assert.Empty(t, garden)

	forge, err := store.TopRecords("forge", 10)
	require.NoError(t, err)
	assert.Len(t, forge, 1)
}

func TestSavesAreScopedByOwner(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveGame("alice", core.Snapshot{GameID: "garden", Currency: bignum.FromInt(1)}))
	require.NoError(t, store.SaveGame("bob", core.Snapshot{GameID: "garden", Currency: bignum.FromInt(2)}))

	alice, err := store.LoadGame("alice", "garden")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, 1.0, alice.Currency.Float64())

	mine, err := store.ListSaves("bob")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "bob", mine[0].Owner)

	all, err := store.ListSaves("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := store.DeleteSave("alice", "garden")
	require.NoError(t, err)
	assert.True(t, deleted)

	bob, err := store.LoadGame("bob", "garden")
	require.NoError(t, err)
	assert.NotNil(t, bob, "deleting one owner's save must not touch another's")
}
