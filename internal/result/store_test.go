package result

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(bssid, outcome, key string) *Record {
	return &Record{
		BSSID:     bssid,
		Channel:   6,
		CapFile:   "/tmp/cap-01.cap",
		Outcome:   outcome,
		Key:       key,
		Duration:  Duration(42 * time.Second),
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_AddAndFind(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results.json"))

	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "captured", ""))
	store.Add(testRecord("11:22:33:44:55:66", "cracked", "hunter2"))

	assert.Equal(t, 2, store.Count())
	found := store.FindByBSSID("11:22:33:44:55:66")
	require.NotNil(t, found)
	assert.Equal(t, "hunter2", found.Key)
	assert.Nil(t, store.FindByBSSID("00:00:00:00:00:00"))
}

func TestStore_DedupesByBSSID(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results.json"))

	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "timed-out", ""))
	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "captured", ""))

	assert.Equal(t, 1, store.Count())
	assert.Equal(t, "captured", store.FindByBSSID("AA:BB:CC:DD:EE:FF").Outcome)
}

func TestStore_CapturedRecordSurvivesTimedOut(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results.json"))

	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "captured", ""))
	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "timed-out", ""))

	assert.Equal(t, "captured", store.FindByBSSID("AA:BB:CC:DD:EE:FF").Outcome)

	// A fresher capture does replace an older one.
	fresh := testRecord("AA:BB:CC:DD:EE:FF", "captured", "")
	fresh.CapFile = "/tmp/fresh-01.cap"
	store.Add(fresh)
	assert.Equal(t, "/tmp/fresh-01.cap", store.FindByBSSID("AA:BB:CC:DD:EE:FF").CapFile)

	// And a capture upgrades an earlier timed-out entry.
	store.Add(testRecord("11:22:33:44:55:66", "timed-out", ""))
	store.Add(testRecord("11:22:33:44:55:66", "captured", ""))
	assert.Equal(t, "captured", store.FindByBSSID("11:22:33:44:55:66").Outcome)
}

func TestStore_CrackedRecordSticks(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results.json"))

	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "cracked", "hunter2"))
	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "captured", ""))

	found := store.FindByBSSID("AA:BB:CC:DD:EE:FF")
	require.NotNil(t, found)
	assert.Equal(t, "cracked", found.Outcome)
	assert.Equal(t, "hunter2", found.Key)
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	first := NewStore(path)
	first.Add(testRecord("AA:BB:CC:DD:EE:FF", "cracked", "hunter2"))
	first.Add(testRecord("11:22:33:44:55:66", "captured", ""))

	second := NewStore(path)
	assert.Equal(t, 2, second.Count())
	found := second.FindByBSSID("AA:BB:CC:DD:EE:FF")
	require.NotNil(t, found)
	assert.Equal(t, "hunter2", found.Key)
	assert.Equal(t, 42*time.Second, time.Duration(found.Duration))
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path)
	assert.Equal(t, 0, store.Count())
}

func TestStore_FormatTable(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results.json"))
	assert.Contains(t, store.FormatTable(), "No recorded sessions")

	store.Add(testRecord("AA:BB:CC:DD:EE:FF", "cracked", "hunter2"))
	table := store.FormatTable()
	assert.Contains(t, table, "AA:BB:CC:DD:EE:FF")
	assert.Contains(t, table, "cracked")
	assert.Contains(t, table, "hunter2")
}

func TestRecord_Cracked(t *testing.T) {
	assert.True(t, testRecord("AA:BB:CC:DD:EE:FF", "cracked", "hunter2").Cracked())
	assert.False(t, testRecord("AA:BB:CC:DD:EE:FF", "captured", "").Cracked())
}
