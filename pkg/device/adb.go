// Package device discovers connected Android devices via ADB and resolves
// a device specifier to the serial an Appium session should target.
package device

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ListTimeout bounds a single `adb devices` invocation.
const ListTimeout = 10 * time.Second

// States reported by `adb devices`.
const (
	StateDevice       = "device" // ready for automation
	StateOffline      = "offline"
	StateUnauthorized = "unauthorized"
	StateBootloader   = "bootloader"
)

// Device is one entry of `adb devices` output.
type Device struct {
	Serial string `json:"serial" yaml:"serial"`
	State  string `json:"state" yaml:"state"`
}

// Ready reports whether the device can be automated.
func (d Device) Ready() bool {
	return d.State == StateDevice
}

// deviceLine matches "<serial><whitespace><state>" with nothing after the state.
var deviceLine = regexp.MustCompile(`^(\S+)\s+(\S+)$`)

// ParseDevices parses `adb devices` output into entries, in reported order.
// The header and daemon status lines are skipped.
func ParseDevices(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") {
			continue
		}
		m := deviceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		devices = append(devices, Device{Serial: m[1], State: m[2]})
	}
	return devices
}

// ReadyDevices filters devices down to those in the "device" state,
// preserving order.
func ReadyDevices(devices []Device) []Device {
	var ready []Device
	for _, d := range devices {
		if d.Ready() {
			ready = append(ready, d)
		}
	}
	return ready
}

// Lister returns the currently connected devices.
type Lister interface {
	List(ctx context.Context) ([]Device, error)
}

// ADBLister lists devices by running `adb devices`.
type ADBLister struct {
	// Path to the adb binary. Empty means FindADB at call time.
	Path string
	// Timeout for the command. Zero means ListTimeout.
	Timeout time.Duration
}

// List runs `adb devices` and parses its output.
func (l *ADBLister) List(ctx context.Context) ([]Device, error) {
	adbPath := l.Path
	if adbPath == "" {
		var err error
		adbPath, err = FindADB()
		if err != nil {
			return nil, err
		}
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = ListTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, adbPath, "devices")
	// Don't wait on pipes held open by children of a killed adb.
	cmd.WaitDelay = time.Second

	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("adb devices: timed out after %v", timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("adb devices: %w", err)
	}
	return ParseDevices(string(out)), nil
}

// ListDevices lists connected devices using adb from PATH or the Android SDK.
func ListDevices(ctx context.Context) ([]Device, error) {
	return (&ADBLister{}).List(ctx)
}

// FindADB locates the ADB binary.
func FindADB() (string, error) {
	// Try PATH first
	if path, err := exec.LookPath("adb"); err == nil {
		return path, nil
	}

	for _, env := range []string{"ANDROID_HOME", "ANDROID_SDK_ROOT"} {
		home := os.Getenv(env)
		if home == "" {
			continue
		}
		path := filepath.Join(home, "platform-tools", "adb")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("adb not found in PATH; ensure Android SDK platform-tools are installed")
}
