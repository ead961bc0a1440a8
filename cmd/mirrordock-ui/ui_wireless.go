package main

import (
	"context"
	"log"
	"strings"
	"time"

	"mirrordock/internal/adb"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// pairingWait bounds how long we browse mDNS for the phone's pairing service
// after the QR is shown.
const pairingWait = 2 * time.Minute

func buildWirelessTab(a fyne.App, mgr *adb.Manager) fyne.CanvasObject {
	status := widget.NewLabel("")
	status.Wrapping = fyne.TextWrapWord

	info := widget.NewLabel("Pair an Android 11+ device over Wi-Fi:\n" +
		"Settings > Developer options > Wireless debugging > Pair device with QR code")
	localIP := widget.NewLabel("This PC: " + bestLocalIP())

	qrImg := canvas.NewImageFromResource(nil)
	qrImg.FillMode = canvas.ImageFillContain
	qrImg.SetMinSize(fyne.NewSize(240, 240))
	qrImg.Hide()

	var qrBtn *widget.Button
	qrBtn = widget.NewButton("Generate pairing QR", func() {
		suffix, err := randomDigits(4)
		if err != nil {
			status.SetText("QR generation failed: " + err.Error())
			return
		}
		name := "MirrorDock-" + suffix
		code, err := randomDigits(6)
		if err != nil {
			status.SetText("QR generation failed: " + err.Error())
			return
		}
		png, err := pairingQRPNG(name, code)
		if err != nil {
			status.SetText("QR generation failed: " + err.Error())
			return
		}

		qrImg.Resource = fyne.NewStaticResource("pairing-qr.png", png)
		qrImg.Refresh()
		qrImg.Show()
		qrBtn.Disable()
		status.SetText("Scan the code with the device. Waiting for it to announce its pairing service…")
		log.Printf("[wireless] pairing QR shown (%s)", name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), pairingWait)
			defer cancel()

			hostPort, err := adb.DiscoverPairing(ctx)
			if err != nil {
				log.Printf("[wireless] discovery: %v", err)
				a.Driver().DoFromGoroutine(func() {
					qrBtn.Enable()
					qrImg.Hide()
					status.SetText("No device showed up for pairing: " + err.Error())
				}, false)
				return
			}

			log.Printf("[wireless] pairing service at %s, running adb pair", hostPort)
			out, err := mgr.Pair(hostPort, code)
			a.Driver().DoFromGoroutine(func() {
				qrBtn.Enable()
				qrImg.Hide()
				if err != nil {
					status.SetText("Pairing failed: " + err.Error())
					log.Printf("[wireless] pair: %v", err)
					return
				}
				status.SetText(strings.TrimSpace(out))
				log.Printf("[wireless] paired via %s", hostPort)
			}, false)
		}()
	})

	// Manual fallback, for phones that only show host:port plus a code.
	manualHost := widget.NewEntry()
	manualHost.SetPlaceHolder("192.168.1.20:37123")
	manualCode := widget.NewEntry()
	manualCode.SetPlaceHolder("pairing code")
	manualBtn := widget.NewButton("Pair", func() {
		hp := strings.TrimSpace(manualHost.Text)
		code := strings.TrimSpace(manualCode.Text)
		if hp == "" || code == "" {
			status.SetText("Host:port and pairing code are both required")
			return
		}
		status.SetText("Pairing with " + hp + "…")
		go func() {
			out, err := mgr.Pair(hp, code)
			a.Driver().DoFromGoroutine(func() {
				if err != nil {
					status.SetText("Pairing failed: " + err.Error())
					log.Printf("[wireless] pair %s: %v", hp, err)
					return
				}
				status.SetText(strings.TrimSpace(out))
			}, false)
		}()
	})

	connectEntry := widget.NewEntry()
	connectEntry.SetPlaceHolder("192.168.1.20:5555")
	connectBtn := widget.NewButton("Connect", func() {
		hp := strings.TrimSpace(connectEntry.Text)
		if hp == "" {
			return
		}
		status.SetText("Connecting to " + hp + "…")
		go func() {
			out, err := mgr.Connect(hp)
			a.Driver().DoFromGoroutine(func() {
				if err != nil {
					status.SetText("Connect failed: " + err.Error())
					log.Printf("[wireless] connect %s: %v", hp, err)
					return
				}
				status.SetText(strings.TrimSpace(out))
				log.Printf("[wireless] connected to %s", hp)
			}, false)
		}()
	})

	return container.NewVBox(
		widget.NewLabelWithStyle("Wireless debugging", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		info,
		localIP,
		qrBtn,
		qrImg,
		widget.NewSeparator(),
		widget.NewLabel("Manual pairing:"),
		manualHost,
		manualCode,
		manualBtn,
		widget.NewSeparator(),
		widget.NewLabel("Connect to a paired device:"),
		connectEntry,
		connectBtn,
		status,
	)
}
