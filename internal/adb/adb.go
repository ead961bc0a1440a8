// Package adb wraps the adb executable. Everything goes through the external
// binary: argument lists in, captured stdout and exit codes out.
package adb

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Manager runs adb commands through a configured binary path.
type Manager struct {
	// Path to the adb binary. Resolved on PATH when it is a bare name.
	Path string
}

func NewManager(path string) *Manager {
	if path == "" {
		path = "adb"
	}
	return &Manager{Path: path}
}

// Device is one entry of `adb devices` output. Model is filled on demand via
// DeviceModel, not by ListDevices.
type Device struct {
	Serial string
	Model  string
}

// ExecError means the adb binary could not be run or exited non-zero. It is
// distinct from "zero devices attached", which is a normal empty result.
type ExecError struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return fmt.Sprintf("%s: %v: %s", e.Cmd, e.Err, s)
	}
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ListDevices returns the serials currently attached, in adb's output order.
// An empty list is not an error.
func (m *Manager) ListDevices() ([]Device, error) {
	out, err := m.run("devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

// parseDevices keeps lines of exactly two fields whose state is "device".
// The header, blank lines and unauthorized/offline entries all fall out of
// that rule.
func parseDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || fields[1] != "device" {
			continue
		}
		devices = append(devices, Device{Serial: fields[0]})
	}
	return devices
}

// DeviceModel asks the device for its human-readable model name.
func (m *Manager) DeviceModel(serial string) (string, error) {
	out, err := m.run("-s", serial, "shell", "getprop", "ro.product.model")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// EnsureServer starts the adb server so the first ListDevices call does not
// come back empty while the server is still warming up.
func (m *Manager) EnsureServer() error {
	_, err := m.run("start-server")
	return err
}

// Pair runs `adb pair` against a wireless-debugging pairing endpoint.
func (m *Manager) Pair(hostPort, code string) (string, error) {
	return m.run("pair", hostPort, code)
}

// Connect runs `adb connect` against a wireless-debugging endpoint.
func (m *Manager) Connect(hostPort string) (string, error) {
	return m.run("connect", hostPort)
}

func (m *Manager) run(args ...string) (string, error) {
	cmd := exec.Command(m.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &ExecError{
			Cmd:    m.Path + " " + strings.Join(args, " "),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return stdout.String(), nil
}
