package mood

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoad_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.Empty(t, store.Load())
}

func TestStoreLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewStore(path)
	assert.Empty(t, store.Load())
}

func TestStoreLoad_DropsUnknownLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	content := `{"history":["adhd_spiral","mystery_mode","sunday_scaries"]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store := NewStore(path)
	assert.Equal(t, []Mood{ADHDSpiral, SundayScaries}, store.Load())
}

func TestStoreSave_TruncatesToLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewStore(path)

	history := []Mood{
		CorporateBurnout,
		ADHDSpiral,
		DelusionalRomantic,
		ExistentiallyExhausted,
		SundayScaries,
		CorporateBurnout,
		ADHDSpiral,
	}
	require.NoError(t, store.Save(history))

	loaded := store.Load()
	assert.Len(t, loaded, 5)
	assert.Equal(t, history[2:], loaded)
}

func TestStoreSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.json")
	store := NewStore(path)

	require.NoError(t, store.Save([]Mood{CorporateBurnout}))
	assert.Equal(t, []Mood{CorporateBurnout}, store.Load())
}

func TestStoreSave_OverwritesPriorRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := NewStore(path)

	require.NoError(t, store.Save([]Mood{CorporateBurnout, ADHDSpiral}))
	require.NoError(t, store.Save([]Mood{SundayScaries}))

	assert.Equal(t, []Mood{SundayScaries}, store.Load())
}
