package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *settingsStore {
	t.Helper()
	store, err := openSettingsStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSettingsStoreDefaultsWhenEmpty(t *testing.T) {
	store := openTestStore(t)

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), st)
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	want := Settings{
		RemoteURL:        "https://configs.example.com/devices.json",
		AutoFetch:        true,
		LogRetentionDays: 14,
		ADBPath:          "/opt/platform-tools/adb",
		ScrcpyPath:       "scrcpy",
		LastMaxSize:      "1280",
		LastBitRate:      "8M",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsStoreSaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	first := defaultSettings()
	first.LastBitRate = "2M"
	require.NoError(t, store.Save(first))

	second := first
	second.LastBitRate = "16M"
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "16M", got.LastBitRate)
}

func TestSettingsStoreSaveValidation(t *testing.T) {
	store := openTestStore(t)

	bad := defaultSettings()
	bad.LogRetentionDays = -1
	assert.Error(t, store.Save(bad))

	bad = defaultSettings()
	bad.AutoFetch = true
	bad.RemoteURL = ""
	assert.Error(t, store.Save(bad))
}

func TestSettingsStoreEmptyPathsFallBack(t *testing.T) {
	store := openTestStore(t)

	st := defaultSettings()
	st.ADBPath = ""
	st.ScrcpyPath = ""
	require.NoError(t, store.Save(st))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "adb", got.ADBPath)
	assert.Equal(t, "scrcpy", got.ScrcpyPath)
}
