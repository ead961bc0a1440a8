// Package config loads the per-device mirroring configuration.
//
// The config is a flat JSON file living next to the executable. When it is
// missing (or unreadable) a bundled default takes its place, and when the
// loaded config asks for it, a remote copy is fetched best-effort over HTTP.
package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

//go:embed default_config.json
var defaultJSON []byte

// ErrMissing means neither the primary file nor the bundled default could be
// used. The app cannot reach a usable state without a config.
var ErrMissing = errors.New("config: primary and bundled default both unusable")

// fetchTimeout bounds the remote refresh GET.
const fetchTimeout = 5 * time.Second

// maxRemoteBody caps how much of a remote response we are willing to read.
const maxRemoteBody = 1 << 20

// DeviceConfig holds the mirroring options for one device. Empty fields mean
// "let the mirroring tool pick its own default".
type DeviceConfig struct {
	DeviceID   string   `json:"deviceId,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	BitRate    string   `json:"bitRate,omitempty"`
	ExtraArgs  []string `json:"extraArgs,omitempty"`
}

// AppConfig is the fully resolved session configuration. It is loaded once at
// startup and treated as immutable afterwards; a manual re-download replaces
// the whole value.
type AppConfig struct {
	FetchRemote bool                    `json:"fetchRemote"`
	RemoteURL   string                  `json:"remoteUrl,omitempty"`
	Defaults    DeviceConfig            `json:"defaults,omitempty"`
	Devices     map[string]DeviceConfig `json:"devices,omitempty"`
}

// RefreshResult reports what the best-effort remote refresh did. A failed
// fetch is logged, never surfaced as an error.
type RefreshResult int

const (
	// RefreshSkipped: fetchRemote was off or no URL was configured.
	RefreshSkipped RefreshResult = iota
	// RefreshKept: the fetch was attempted and failed; prior config kept.
	RefreshKept
	// RefreshFetched: the remote config replaced the loaded one.
	RefreshFetched
)

func (r RefreshResult) String() string {
	switch r {
	case RefreshKept:
		return "kept-existing"
	case RefreshFetched:
		return "fetched"
	default:
		return "skipped"
	}
}

// Load reads the config at path, falling back to the bundled default when the
// file is absent or unparsable. If the loaded config enables fetchRemote, the
// remote copy is fetched with a bounded timeout and, on success, replaces the
// in-memory config and overwrites path on disk.
func Load(path string) (AppConfig, RefreshResult, error) {
	cfg, err := loadFile(path)
	if err != nil {
		log.Printf("[config] %s unusable: %v (falling back to bundled default)", path, err)
		cfg, err = parse(defaultJSON)
		if err != nil {
			return AppConfig{}, RefreshSkipped, fmt.Errorf("%w: %v", ErrMissing, err)
		}
	}

	if !cfg.FetchRemote || cfg.RemoteURL == "" {
		return cfg, RefreshSkipped, nil
	}

	remote, err := fetch(context.Background(), cfg.RemoteURL)
	if err != nil {
		log.Printf("[config] remote refresh failed: %v (keeping loaded config)", err)
		return cfg, RefreshKept, nil
	}
	if err := os.WriteFile(path, remote.raw, 0o644); err != nil {
		// in-memory config is already refreshed; the write-back is best effort
		log.Printf("[config] could not write %s: %v", path, err)
	}
	log.Printf("[config] remote config applied (%d device entries)", len(remote.cfg.Devices))
	return remote.cfg, RefreshFetched, nil
}

func loadFile(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return parse(data)
}

func parse(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

type fetched struct {
	cfg AppConfig
	raw []byte
}

// fetch downloads and parses a config from url.
func fetch(ctx context.Context, url string) (fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetched{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetched{}, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return fetched{}, fmt.Errorf("GET %s: %w", url, err)
	}
	cfg, err := parse(body)
	if err != nil {
		return fetched{}, err
	}
	return fetched{cfg: cfg, raw: body}, nil
}

// Download fetches url and, on success, writes it over path and returns the
// parsed config. Fetch errors come back to the caller (the settings UI shows
// them inline); only the disk write-back stays best effort.
func Download(ctx context.Context, url, path string) (AppConfig, error) {
	remote, err := fetch(ctx, url)
	if err != nil {
		return AppConfig{}, err
	}
	if err := os.WriteFile(path, remote.raw, 0o644); err != nil {
		log.Printf("[config] could not write %s: %v", path, err)
	}
	return remote.cfg, nil
}

// Resolve merges the global defaults with the per-device entry for serial.
// Non-empty per-device fields win; extraArgs replace the default set rather
// than appending to it.
func (c AppConfig) Resolve(serial string) DeviceConfig {
	out := c.Defaults
	out.DeviceID = serial

	d, ok := c.Devices[serial]
	if !ok {
		return out
	}
	if d.Resolution != "" {
		out.Resolution = d.Resolution
	}
	if d.BitRate != "" {
		out.BitRate = d.BitRate
	}
	if d.ExtraArgs != nil {
		out.ExtraArgs = d.ExtraArgs
	}
	return out
}
