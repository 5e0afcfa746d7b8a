package budget

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_LoadEmpty(t *testing.T) {
	store := NewSnapshotStore(t.TempDir())

	_, err := store.Load()

	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStore_LastWriteWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "slot")
	store := NewSnapshotStore(dir)

	first := NewModel()
	require.NoError(t, store.Save(first.Snapshot(time.Unix(100, 0))))

	second := NewModel()
	second.SetScenario(Optimistic)
	require.NoError(t, second.Set("services", 20000))
	require.NoError(t, store.Save(second.Snapshot(time.Unix(200, 0))))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Optimistic, got.Scenario)
	assert.True(t, got.Timestamp.Equal(time.Unix(200, 0)), got.Timestamp)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSnapshot_RoundTripsThroughRestore(t *testing.T) {
	m := NewModel()
	m.SetScenario(Conservative)
	require.NoError(t, m.Set("grants", 50000))

	restored, err := m.Snapshot(time.Now()).Restore()
	require.NoError(t, err)

	assert.Equal(t, m.Values(), restored.Values())
	assert.Equal(t, m.Result(), restored.Result())
}

func TestSnapshot_RestoreRejectsOutOfRange(t *testing.T) {
	snap := Snapshot{Scenario: Realistic, Streams: []StreamValue{{ID: "donations", Value: 31000}}}

	_, err := snap.Restore()

	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestEncodeBreakdownCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, EncodeBreakdownCSV(&buf, NewModel().Breakdown()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id,name,projected,potential,share", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "equipment,Equipment Sales,40000,60000,"), lines[1])
}
