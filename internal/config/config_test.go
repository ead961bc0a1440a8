package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device_config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRoundTrip(t *testing.T) {
	path := writeConfig(t, `{
		"fetchRemote": false,
		"defaults": {"resolution": "1280", "bitRate": "8M"},
		"devices": {
			"R58M123ABC": {"deviceId": "R58M123ABC", "extraArgs": ["--crop", "1600:900:0:0"]}
		}
	}`)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshSkipped, res)
	assert.False(t, cfg.FetchRemote)
	assert.Equal(t, "1280", cfg.Defaults.Resolution)
	assert.Equal(t, "8M", cfg.Defaults.BitRate)
	require.Contains(t, cfg.Devices, "R58M123ABC")
	assert.Equal(t, []string{"--crop", "1600:900:0:0"}, cfg.Devices["R58M123ABC"].ExtraArgs)
}

func TestLoadMissingPrimaryUsesBundledDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does_not_exist.json")

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshSkipped, res)

	want, err := parse(defaultJSON)
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestLoadUnparsablePrimaryUsesBundledDefault(t *testing.T) {
	path := writeConfig(t, `{not json`)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshSkipped, res)
	assert.Empty(t, cfg.Devices)
}

func TestLoadFetchRemoteFalseSkips(t *testing.T) {
	path := writeConfig(t, `{"fetchRemote": false}`)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshSkipped, res)
	assert.Empty(t, cfg.Devices)
	assert.Equal(t, DeviceConfig{}, cfg.Defaults)
}

func TestLoadRemoteFetched(t *testing.T) {
	remoteBody := `{"fetchRemote": false, "devices": {"serial1": {"bitRate": "4M"}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remoteBody))
	}))
	defer srv.Close()

	path := writeConfig(t, `{"fetchRemote": true, "remoteUrl": "`+srv.URL+`"}`)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshFetched, res)
	require.Contains(t, cfg.Devices, "serial1")
	assert.Equal(t, "4M", cfg.Devices["serial1"].BitRate)

	// the fetched JSON was written back over the local file
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, remoteBody, string(onDisk))
}

func TestLoadRemoteKeptOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	local := `{"fetchRemote": true, "remoteUrl": "` + srv.URL + `", "defaults": {"bitRate": "8M"}}`
	path := writeConfig(t, local)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshKept, res)
	assert.Equal(t, "8M", cfg.Defaults.BitRate)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, local, string(onDisk), "a failed fetch must not touch the local file")
}

func TestLoadRemoteKeptOnBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a config</html>"))
	}))
	defer srv.Close()

	path := writeConfig(t, `{"fetchRemote": true, "remoteUrl": "`+srv.URL+`", "defaults": {"resolution": "1024"}}`)

	cfg, res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RefreshKept, res)
	assert.Equal(t, "1024", cfg.Defaults.Resolution)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"devices": {"abc": {"resolution": "720"}}}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "device_config.json")
	cfg, err := Download(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, "720", cfg.Devices["abc"].Resolution)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDownloadErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x.json"))
	assert.Error(t, err)
}

func TestResolveMergesDefaults(t *testing.T) {
	cfg := AppConfig{
		Defaults: DeviceConfig{Resolution: "1280", BitRate: "8M", ExtraArgs: []string{"--stay-awake"}},
		Devices: map[string]DeviceConfig{
			"serial1": {BitRate: "2M", ExtraArgs: []string{"--crop", "1080:1080:0:0"}},
		},
	}

	got := cfg.Resolve("serial1")
	assert.Equal(t, "serial1", got.DeviceID)
	assert.Equal(t, "1280", got.Resolution, "default survives when the entry leaves it empty")
	assert.Equal(t, "2M", got.BitRate, "per-device value wins")
	assert.Equal(t, []string{"--crop", "1080:1080:0:0"}, got.ExtraArgs, "extraArgs replace, not append")

	unknown := cfg.Resolve("other")
	assert.Equal(t, "other", unknown.DeviceID)
	assert.Equal(t, "8M", unknown.BitRate)
	assert.Equal(t, []string{"--stay-awake"}, unknown.ExtraArgs)
}

func TestRefreshResultString(t *testing.T) {
	assert.Equal(t, "skipped", RefreshSkipped.String())
	assert.Equal(t, "kept-existing", RefreshKept.String())
	assert.Equal(t, "fetched", RefreshFetched.String())
}
