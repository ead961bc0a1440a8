package main

import (
	"log"
	"strings"
	"time"

	"mirrordock/internal/adb"
	"mirrordock/internal/scrcpy"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func buildMirrorTab(a fyne.App, mgr *adb.Manager, launcher *scrcpy.Launcher, holder *configHolder, st *Settings, state *UIState, poll time.Duration) fyne.CanvasObject {
	versionLabel := widget.NewLabel("scrcpy: probing…")
	go func() {
		v, err := scrcpy.Version(launcher.Path)
		text := "scrcpy " + v
		if err != nil {
			text = "scrcpy not found"
			log.Printf("[mirror] version probe: %v", err)
		}
		a.Driver().DoFromGoroutine(func() { versionLabel.SetText(text) }, false)
	}()

	modelLabel := widget.NewLabel("")
	appliedLabel := widget.NewLabel("")
	statusLabel := widget.NewLabel("")
	statusLabel.Wrapping = fyne.TextWrapWord

	if holder.err != nil {
		statusLabel.SetText("Config unavailable, mirroring disabled: " + holder.err.Error())
	}

	maxSizeEntry := widget.NewEntry()
	maxSizeEntry.SetPlaceHolder("max size, e.g. 1280")
	maxSizeEntry.SetText(st.LastMaxSize)

	bitRateEntry := widget.NewEntry()
	bitRateEntry.SetPlaceHolder("bit rate, e.g. 8M")
	bitRateEntry.SetText(st.LastBitRate)

	var devices []adb.Device
	var startBtn, stopBtn *widget.Button
	var listFailed bool

	deviceSelect := widget.NewSelect(nil, nil)
	deviceSelect.PlaceHolder = "no devices found"

	updateButtons := func() {
		if launcher.Running() {
			startBtn.Disable()
			stopBtn.Enable()
			return
		}
		stopBtn.Disable()
		if deviceSelect.Selected == "" || !holder.ok {
			startBtn.Disable()
		} else {
			startBtn.Enable()
		}
	}

	deviceSelect.OnChanged = func(serial string) {
		if serial == "" {
			modelLabel.SetText("")
			appliedLabel.SetText("")
			updateButtons()
			return
		}
		resolved := holder.resolve(serial)
		appliedLabel.SetText(strings.Join(resolved.ExtraArgs, " "))
		if resolved.Resolution != "" {
			maxSizeEntry.SetText(resolved.Resolution)
		}
		if resolved.BitRate != "" {
			bitRateEntry.SetText(resolved.BitRate)
		}
		updateButtons()

		go func() {
			model, err := mgr.DeviceModel(serial)
			if err != nil {
				log.Printf("[mirror] model probe %s: %v", serial, err)
				return
			}
			a.Driver().DoFromGoroutine(func() {
				// the selection may have moved on while we probed
				if deviceSelect.Selected == serial {
					modelLabel.SetText(model)
				}
			}, false)
		}()
	}

	// applyDevices must run on the UI loop.
	applyDevices := func(found []adb.Device) {
		devices = found
		options := make([]string, 0, len(found))
		for _, d := range found {
			options = append(options, d.Serial)
		}

		selected := deviceSelect.Selected
		deviceSelect.Options = options

		if len(options) == 0 {
			deviceSelect.ClearSelected()
			deviceSelect.Refresh()
			modelLabel.SetText("")
			appliedLabel.SetText("")
			updateButtons()
			return
		}
		keep := false
		for _, s := range options {
			if s == selected {
				keep = true
				break
			}
		}
		if keep {
			deviceSelect.Refresh()
			updateButtons()
		} else {
			deviceSelect.SetSelected(options[0])
		}
	}

	refresh := func() {
		go func() {
			found, err := mgr.ListDevices()
			a.Driver().DoFromGoroutine(func() {
				if err != nil {
					listFailed = true
					statusLabel.SetText("Device listing failed: " + err.Error())
					log.Printf("[mirror] ListDevices: %v", err)
					return
				}
				if listFailed {
					listFailed = false
					statusLabel.SetText("")
				}
				if !sameSerials(devices, found) {
					applyDevices(found)
				}
			}, false)
		}()
	}

	refreshBtn := widget.NewButton("Refresh", refresh)

	startBtn = widget.NewButton("Start mirroring", func() {
		serial := deviceSelect.Selected
		if serial == "" {
			return
		}
		resolved := holder.resolve(serial)
		launchOpts := scrcpy.Options{
			MaxSize:   strings.TrimSpace(maxSizeEntry.Text),
			BitRate:   strings.TrimSpace(bitRateEntry.Text),
			ExtraArgs: resolved.ExtraArgs,
		}
		args := scrcpy.BuildArgs(serial, len(devices), launchOpts)

		st.LastMaxSize = launchOpts.MaxSize
		st.LastBitRate = launchOpts.BitRate
		if err := saveSettings(*st); err != nil {
			log.Printf("[mirror] saveSettings: %v", err)
		}

		log.Printf("[mirror] launching: scrcpy %s", strings.Join(args, " "))
		err := launcher.Start(args, func(err error, tail []string) {
			a.Driver().DoFromGoroutine(func() {
				if err != nil {
					msg := "Mirroring ended with error: " + err.Error()
					if len(tail) > 0 {
						msg += "\n" + strings.Join(tail, "\n")
					}
					statusLabel.SetText(msg)
					log.Printf("[mirror] session ended: %v", err)
				} else {
					statusLabel.SetText("Mirroring session ended")
					log.Printf("[mirror] session ended cleanly")
				}
				updateButtons()
			}, false)
		})
		if err != nil {
			statusLabel.SetText("Launch failed: " + err.Error())
			log.Printf("[mirror] launch failed: %v", err)
			return
		}
		statusLabel.SetText("Mirroring " + serial)
		updateButtons()
	})

	stopBtn = widget.NewButton("Stop", func() {
		if err := launcher.Stop(); err != nil {
			statusLabel.SetText("Stop failed: " + err.Error())
			log.Printf("[mirror] stop failed: %v", err)
		}
	})

	updateButtons()
	refresh()

	// Background poll so plugging a device in shows up without clicking
	// Refresh. Paused while the window is hidden.
	if poll > 0 {
		go func() {
			ticker := time.NewTicker(poll)
			for range ticker.C {
				if !state.ShowUI || launcher.Running() {
					continue
				}
				found, err := mgr.ListDevices()
				if err != nil {
					continue
				}
				a.Driver().DoFromGoroutine(func() {
					if !sameSerials(devices, found) {
						applyDevices(found)
					}
				}, false)
			}
		}()
	}

	return container.NewVBox(
		widget.NewLabelWithStyle("Mirror", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		versionLabel,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Device:"), refreshBtn, deviceSelect),
		container.NewHBox(widget.NewLabel("Model:"), modelLabel),
		container.NewHBox(widget.NewLabel("Config args:"), appliedLabel),
		widget.NewSeparator(),
		maxSizeEntry,
		bitRateEntry,
		container.NewHBox(startBtn, stopBtn),
		statusLabel,
	)
}

func sameSerials(a, b []adb.Device) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Serial != b[i].Serial {
			return false
		}
	}
	return true
}
