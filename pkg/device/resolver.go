package device

import (
	"context"
	"strings"

	"github.com/devicelab-dev/todo-e2e/pkg/logger"
)

// FallbackDeviceID is used when auto-resolution finds no ready device.
// Session start fails downstream if no emulator has this serial.
const FallbackDeviceID = "emulator-5554"

// autoSpecifiers mean "pick the first ready device".
var autoSpecifiers = map[string]bool{
	"":           true,
	"any":        true,
	"any_active": true,
}

// IsAutoSpecifier reports whether s asks for automatic device selection.
// Comparison ignores case and surrounding whitespace.
func IsAutoSpecifier(s string) bool {
	return autoSpecifiers[strings.ToLower(strings.TrimSpace(s))]
}

// Resolver picks the concrete device serial for an Android session.
type Resolver struct {
	Lister Lister
}

// NewResolver returns a Resolver backed by `adb devices`.
func NewResolver() *Resolver {
	return &Resolver{Lister: &ADBLister{}}
}

// Resolve returns the device serial to target. It never returns an empty
// string or an auto specifier.
//
// A concrete override wins. Otherwise a concrete raw value is returned as
// is, and an auto raw value selects the first ready connected device, or
// FallbackDeviceID. Listing failures count as "no devices".
func (r *Resolver) Resolve(ctx context.Context, raw, override string) string {
	if !IsAutoSpecifier(override) {
		return strings.TrimSpace(override)
	}
	if !IsAutoSpecifier(raw) {
		return raw
	}

	if serial, ok := r.firstReady(ctx); ok {
		logger.Info("Auto-selected device %s", serial)
		return serial
	}

	logger.Warn("No ready device found, falling back to %s", FallbackDeviceID)
	return FallbackDeviceID
}

func (r *Resolver) firstReady(ctx context.Context) (string, bool) {
	if r.Lister == nil {
		return "", false
	}
	devices, err := r.Lister.List(ctx)
	if err != nil {
		logger.Debug("Device listing failed, treating as no devices: %v", err)
		return "", false
	}
	ready := ReadyDevices(devices)
	if len(ready) == 0 {
		return "", false
	}
	return ready[0].Serial, true
}
