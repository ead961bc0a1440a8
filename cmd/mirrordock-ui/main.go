package main

import (
	"flag"
	"log"
	"time"

	"mirrordock/internal/loghub"
)

func main() {
	tray := flag.Bool("tray", false, "start hidden in the system tray")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	opts := UIOpts{
		StartInTray: *tray,
		AppRunName:  "MirrorDock",
		MaxUILines:  300,
		Tick:        250 * time.Millisecond,
		DevicePoll:  2 * time.Second,
	}

	// Hub feeds the Logs tab and catches early boot logging.
	hub := loghub.New(opts.MaxUILines)

	closeFn, err := InitEarlyLogging(hub)
	if err != nil {
		// no file log, but at least the UI hub still sees everything
		log.SetOutput(hub)
		log.Printf("[boot] InitEarlyLogging error: %v", err)
	} else {
		defer closeFn()
	}

	log.Println("[boot] logger initialized (file + ui hub)")

	st, err := loadSettings()
	if err != nil {
		log.Printf("[boot] loadSettings error: %v (using defaults)", err)
		st = defaultSettings()
	}
	if err := PurgeOldLogs(st.LogRetentionDays); err != nil {
		log.Printf("[boot] PurgeOldLogs error: %v", err)
	}

	runUI(opts, hub, st)
}
