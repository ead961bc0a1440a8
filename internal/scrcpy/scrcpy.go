// Package scrcpy builds argument lists for the scrcpy binary and manages a
// single running mirroring session.
package scrcpy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// ErrAlreadyRunning means a mirroring session is live; Start refuses a second
// child until the first one exits or is stopped.
var ErrAlreadyRunning = errors.New("scrcpy: a mirroring session is already running")

// Options are the per-launch settings. Empty fields are omitted from the
// argument list so scrcpy applies its own defaults. Values are passed through
// verbatim; scrcpy rejects malformed ones on its own terms.
type Options struct {
	MaxSize   string
	BitRate   string
	ExtraArgs []string
}

// BuildArgs constructs the scrcpy argument list: config extraArgs first, then
// the explicit option flags, then the device selector. The selector is only
// included when more than one device is attached, matching scrcpy's own
// single-device default.
func BuildArgs(serial string, deviceCount int, opts Options) []string {
	args := make([]string, 0, len(opts.ExtraArgs)+6)
	args = append(args, opts.ExtraArgs...)
	if opts.MaxSize != "" {
		args = append(args, "--max-size", opts.MaxSize)
	}
	if opts.BitRate != "" {
		args = append(args, "--video-bit-rate", opts.BitRate)
	}
	if deviceCount > 1 {
		args = append(args, "--serial", serial)
	}
	return args
}

// Version probes the scrcpy binary and returns its version string.
func Version(path string) (string, error) {
	if path == "" {
		path = "scrcpy"
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}
	return parseVersion(string(out)), nil
}

// parseVersion extracts the version number from output like
// "scrcpy 3.3.1 <https://github.com/Genymobile/scrcpy>".
func parseVersion(out string) string {
	first, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(first)
	if len(fields) < 2 {
		return "unknown"
	}
	return fields[1]
}

// Launcher owns at most one scrcpy child process.
type Launcher struct {
	// Path to the scrcpy binary.
	Path string
	// TailLines is how many trailing stderr lines are kept for error display.
	TailLines int

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewLauncher(path string) *Launcher {
	if path == "" {
		path = "scrcpy"
	}
	return &Launcher{Path: path, TailLines: 20}
}

// Running reports whether a session is currently live.
func (l *Launcher) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cmd != nil
}

// Start spawns scrcpy with args and returns as soon as the child is running.
// When the child exits, onExit is called from the wait goroutine with the
// exit error (nil on clean exit) and the captured stderr tail. Callers on a
// UI loop must marshal that callback back themselves.
func (l *Launcher) Start(args []string, onExit func(err error, stderrTail []string)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd != nil {
		return ErrAlreadyRunning
	}

	cmd := exec.Command(l.Path, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.Path, err)
	}
	l.cmd = cmd

	go func() {
		tail := tailLines(stderr, l.TailLines)
		err := cmd.Wait()

		l.mu.Lock()
		l.cmd = nil
		l.mu.Unlock()

		if onExit != nil {
			onExit(err, tail)
		}
	}()
	return nil
}

// Stop kills the running session, if any. The exit still arrives through the
// onExit callback passed to Start.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd == nil {
		return nil
	}
	return l.cmd.Process.Kill()
}

// tailLines drains r and keeps the last n lines.
func tailLines(r io.Reader, n int) []string {
	if n <= 0 {
		n = 20
	}
	var tail []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > n {
			tail = tail[1:]
		}
	}
	return tail
}
