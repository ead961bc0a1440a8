package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Settings are the UI preferences of this machine. They live in a small
// sqlite store in the user config dir, separate from the device config JSON
// which stays a flat file (and may be overwritten by a remote fetch).
type Settings struct {
	RemoteURL        string
	AutoFetch        bool
	LogRetentionDays int
	ADBPath          string
	ScrcpyPath       string
	LastMaxSize      string
	LastBitRate      string
}

func defaultSettings() Settings {
	return Settings{
		RemoteURL:        "",
		AutoFetch:        false,
		LogRetentionDays: 7,
		ADBPath:          "adb",
		ScrcpyPath:       "scrcpy",
	}
}

func appDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "MirrorDock")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func settingsDBPath() (string, error) {
	dir, err := appDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mirrordock.db"), nil
}

type settingsStore struct {
	db *sql.DB
}

func openSettingsStore(path string) (*settingsStore, error) {
	// modernc sqlite DSN: "file:<path>"
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &settingsStore{db: db}, nil
}

func (s *settingsStore) Close() error { return s.db.Close() }

func (s *settingsStore) set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings(key,value) VALUES(?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

func (s *settingsStore) get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *settingsStore) Load() (Settings, error) {
	st := defaultSettings()

	readStr := func(k string, dst *string) error {
		if v, ok, err := s.get(k); err != nil {
			return err
		} else if ok {
			*dst = v
		}
		return nil
	}
	readInt := func(k string, dst *int) error {
		if v, ok, err := s.get(k); err != nil {
			return err
		} else if ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
		return nil
	}
	readBool := func(k string, dst *bool) error {
		if v, ok, err := s.get(k); err != nil {
			return err
		} else if ok {
			*dst = (v == "1" || v == "true")
		}
		return nil
	}

	if err := readStr("remote_url", &st.RemoteURL); err != nil {
		return st, err
	}
	_ = readBool("auto_fetch", &st.AutoFetch)
	_ = readInt("log_retention_days", &st.LogRetentionDays)
	_ = readStr("adb_path", &st.ADBPath)
	_ = readStr("scrcpy_path", &st.ScrcpyPath)
	_ = readStr("last_max_size", &st.LastMaxSize)
	_ = readStr("last_bit_rate", &st.LastBitRate)

	if st.ADBPath == "" {
		st.ADBPath = "adb"
	}
	if st.ScrcpyPath == "" {
		st.ScrcpyPath = "scrcpy"
	}
	return st, nil
}

func (s *settingsStore) Save(st Settings) error {
	if st.LogRetentionDays < 0 {
		return fmt.Errorf("invalid log_retention_days: %d", st.LogRetentionDays)
	}
	if st.AutoFetch && st.RemoteURL == "" {
		return fmt.Errorf("auto fetch enabled but remote URL is empty")
	}

	writeBool := func(k string, v bool) error {
		if v {
			return s.set(k, "1")
		}
		return s.set(k, "0")
	}

	if err := s.set("remote_url", st.RemoteURL); err != nil {
		return err
	}
	if err := writeBool("auto_fetch", st.AutoFetch); err != nil {
		return err
	}
	if err := s.set("log_retention_days", strconv.Itoa(st.LogRetentionDays)); err != nil {
		return err
	}
	if err := s.set("adb_path", st.ADBPath); err != nil {
		return err
	}
	if err := s.set("scrcpy_path", st.ScrcpyPath); err != nil {
		return err
	}
	if err := s.set("last_max_size", st.LastMaxSize); err != nil {
		return err
	}
	return s.set("last_bit_rate", st.LastBitRate)
}

func loadSettings() (Settings, error) {
	p, err := settingsDBPath()
	if err != nil {
		return defaultSettings(), err
	}
	store, err := openSettingsStore(p)
	if err != nil {
		return defaultSettings(), err
	}
	defer store.Close()
	return store.Load()
}

func saveSettings(st Settings) error {
	p, err := settingsDBPath()
	if err != nil {
		return err
	}
	store, err := openSettingsStore(p)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(st)
}
