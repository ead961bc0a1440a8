package main

import (
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func buildLogsTab(a fyne.App, w fyne.Window, hub HubIface, state *UIState, maxLines int, tick time.Duration) fyne.CanvasObject {
	// lines is only touched from the UI loop
	lines := hub.Snapshot()
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	logList := widget.NewList(
		func() int { return len(lines) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i >= 0 && i < len(lines) {
				obj.(*widget.Label).SetText(lines[i])
			}
		},
	)

	status := widget.NewLabel("Showing last " + strconv.Itoa(maxLines) + " lines")

	btnClear := widget.NewButton("Clear", func() {
		hub.Clear()
		lines = nil
		logList.Refresh()
	})
	btnCopy := widget.NewButton("Copy", func() {
		w.Clipboard().SetContent(strings.Join(lines, "\n"))
	})

	ch, _ := hub.Subscribe(1000)

	pending := make(chan string, 5000)
	go func() {
		for ln := range ch {
			select {
			case pending <- ln:
			default:
			}
		}
	}()

	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(tick)
		for range ticker.C {
			a.Driver().DoFromGoroutine(func() {
				changed := false
			drain:
				for i := 0; i < 200; i++ {
					select {
					case ln := <-pending:
						lines = append(lines, ln)
						changed = true
					default:
						break drain
					}
				}
				if !changed {
					return
				}
				if len(lines) > maxLines {
					lines = lines[len(lines)-maxLines:]
				}
				// don't refresh while hidden in the tray
				if !state.ShowUI {
					return
				}
				logList.Refresh()
				logList.ScrollToBottom()
			}, false)
		}
	}()

	return container.NewBorder(
		container.NewHBox(btnClear, btnCopy),
		status, nil, nil,
		logList,
	)
}
