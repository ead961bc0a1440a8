package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"mirrordock/internal/config"
	"mirrordock/internal/startup"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func buildSettingsTab(a fyne.App, w fyne.Window, st *Settings, holder *configHolder, cfgPath string, appRunName string) fyne.CanvasObject {
	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/device_config.json")
	urlEntry.SetText(st.RemoteURL)

	autoFetch := widget.NewCheck("Download device config on start", nil)
	autoFetch.SetChecked(st.AutoFetch)

	downloadBtn := widget.NewButton("Download config now", func() {
		url := strings.TrimSpace(urlEntry.Text)
		if url == "" {
			status.SetText("Remote URL is empty")
			return
		}
		status.SetText("Downloading…")
		go func() {
			cfg, err := config.Download(context.Background(), url, cfgPath)
			a.Driver().DoFromGoroutine(func() {
				if err != nil {
					status.SetText("Download failed: " + err.Error())
					log.Printf("[settings] download: %v", err)
					return
				}
				holder.set(cfg)
				status.SetText(fmt.Sprintf("Config downloaded (%d device entries)", len(cfg.Devices)))
				log.Printf("[settings] config downloaded from %s", url)
			}, false)
		}()
	})

	retentionEntry := widget.NewEntry()
	retentionEntry.SetText(strconv.Itoa(st.LogRetentionDays))

	adbPathEntry := widget.NewEntry()
	adbPathEntry.SetText(st.ADBPath)
	scrcpyPathEntry := widget.NewEntry()
	scrcpyPathEntry.SetText(st.ScrcpyPath)

	// Autostart via the OS (registry Run key on windows).
	enabled, existingCmd, err := startup.IsEnabled(appRunName)
	supported := !errors.Is(err, startup.ErrUnsupported)
	if err != nil && supported {
		log.Printf("[settings] startup.IsEnabled error: %v", err)
		enabled = false
		existingCmd = ""
	}

	autostartStatus := widget.NewLabel("")
	setAutostartStatus := func() {
		switch {
		case !supported:
			autostartStatus.SetText("Autostart: not supported on this platform")
		case enabled:
			autostartStatus.SetText("Autostart: ON\n" + existingCmd)
		default:
			autostartStatus.SetText("Autostart: OFF")
		}
	}
	setAutostartStatus()

	var checkAutostart *widget.Check
	checkAutostart = widget.NewCheck("Start with the OS (tray mode)", func(v bool) {
		if err := startup.SetEnabled(appRunName, v, "--tray"); err != nil {
			log.Printf("[settings] startup.SetEnabled error: %v", err)
			enabled = !v
			checkAutostart.SetChecked(enabled)
			setAutostartStatus()
			return
		}
		enabled2, cmd2, err2 := startup.IsEnabled(appRunName)
		if err2 != nil {
			log.Printf("[settings] startup.IsEnabled error: %v", err2)
		}
		enabled = enabled2
		existingCmd = cmd2
		setAutostartStatus()
	})
	checkAutostart.SetChecked(enabled)
	if !supported {
		checkAutostart.Disable()
	}

	saveBtn := widget.NewButton("Save settings", func() {
		days, err := strconv.Atoi(strings.TrimSpace(retentionEntry.Text))
		if err != nil || days < 0 {
			status.SetText("Invalid log retention days")
			return
		}
		next := *st
		next.RemoteURL = strings.TrimSpace(urlEntry.Text)
		next.AutoFetch = autoFetch.Checked
		next.LogRetentionDays = days
		next.ADBPath = strings.TrimSpace(adbPathEntry.Text)
		next.ScrcpyPath = strings.TrimSpace(scrcpyPathEntry.Text)

		if err := saveSettings(next); err != nil {
			status.SetText("Save failed: " + err.Error())
			log.Printf("[settings] save: %v", err)
			return
		}
		*st = next
		status.SetText("Settings saved (tool paths apply on next start)")
		log.Printf("[settings] saved")
	})

	btnHideToTray := widget.NewButton("Hide to tray now", func() {
		w.Hide()
	})

	return container.NewVBox(
		widget.NewLabelWithStyle("Device config", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Remote config URL:"),
		urlEntry,
		autoFetch,
		downloadBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Tools", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("adb path:"),
		adbPathEntry,
		widget.NewLabel("scrcpy path:"),
		scrcpyPathEntry,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("App", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Log retention (days):"),
		retentionEntry,
		checkAutostart,
		autostartStatus,
		container.NewHBox(saveBtn, btnHideToTray),
		status,
	)
}
