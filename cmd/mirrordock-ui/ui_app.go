package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"mirrordock/internal/adb"
	"mirrordock/internal/config"
	"mirrordock/internal/scrcpy"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
)

type UIOpts struct {
	StartInTray bool
	AppRunName  string
	MaxUILines  int
	Tick        time.Duration
	DevicePoll  time.Duration
}

type UIState struct {
	ShowUI bool
}

type HubIface interface {
	Snapshot() []string
	Subscribe(n int) (<-chan string, func())
	Clear()
}

// configHolder carries the active AppConfig. It is read and replaced only
// from the UI loop (the manual download delivers its result there too), so no
// lock is needed.
type configHolder struct {
	cfg config.AppConfig
	ok  bool
	err error
}

func (h *configHolder) set(cfg config.AppConfig) {
	h.cfg = cfg
	h.ok = true
	h.err = nil
}

func (h *configHolder) resolve(serial string) config.DeviceConfig {
	if !h.ok {
		return config.DeviceConfig{DeviceID: serial}
	}
	return h.cfg.Resolve(serial)
}

func configPath() string {
	return filepath.Join(exeDir(), "device_config.json")
}

func runUI(opts UIOpts, hub HubIface, st Settings) {
	state := &UIState{ShowUI: true}

	a := app.NewWithID("io.github.mirrordock")
	w := a.NewWindow("MirrorDock")
	w.Resize(fyne.NewSize(820, 600))

	mgr := adb.NewManager(st.ADBPath)
	if err := mgr.EnsureServer(); err != nil {
		// listing still gets its own error path; this is just a warm-up
		log.Printf("[boot] adb start-server: %v", err)
	}
	launcher := scrcpy.NewLauncher(st.ScrcpyPath)

	cfgPath := configPath()
	holder := &configHolder{}
	cfg, res, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[boot] config unusable: %v", err)
		holder.err = err
	} else {
		holder.set(cfg)
		log.Printf("[boot] config loaded: %d device entries, remote refresh %s", len(cfg.Devices), res)
	}

	// Startup re-download driven by the persisted UI setting, independent of
	// the fetchRemote flag inside the config itself.
	if st.AutoFetch && st.RemoteURL != "" && res != config.RefreshFetched {
		go func() {
			fetched, err := config.Download(context.Background(), st.RemoteURL, cfgPath)
			if err != nil {
				log.Printf("[config] auto download failed: %v (keeping loaded config)", err)
				return
			}
			a.Driver().DoFromGoroutine(func() {
				holder.set(fetched)
				log.Printf("[config] auto download applied: %d device entries", len(fetched.Devices))
			}, false)
		}()
	}

	mirrorTab := buildMirrorTab(a, mgr, launcher, holder, &st, state, opts.DevicePoll)
	wirelessTab := buildWirelessTab(a, mgr)
	logsTab := buildLogsTab(a, w, hub, state, opts.MaxUILines, opts.Tick)
	settingsTab := buildSettingsTab(a, w, &st, holder, cfgPath, opts.AppRunName)

	tabs := container.NewAppTabs(
		container.NewTabItem("Mirror", mirrorTab),
		container.NewTabItem("Wireless", wirelessTab),
		container.NewTabItem("Logs", logsTab),
		container.NewTabItem("Settings", settingsTab),
	)
	w.SetContent(tabs)

	if desk, ok := a.(desktop.App); ok {
		menuShow := fyne.NewMenuItem("Open", func() {
			state.ShowUI = true
			w.Show()
			w.RequestFocus()
		})
		menuHide := fyne.NewMenuItem("Hide", func() {
			state.ShowUI = false
			w.Hide()
		})
		menuExit := fyne.NewMenuItem("Quit", func() {
			a.Quit()
		})
		desk.SetSystemTrayMenu(fyne.NewMenu(opts.AppRunName, menuShow, menuHide, menuExit))
	}

	w.SetCloseIntercept(func() {
		state.ShowUI = false
		w.Hide()
	})

	log.Printf("[ui] started")

	if opts.StartInTray {
		state.ShowUI = false
		w.Hide()
		a.Run()
		return
	}

	state.ShowUI = true
	w.ShowAndRun()
}
