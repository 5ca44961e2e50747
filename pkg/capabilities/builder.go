package capabilities

import (
	"context"

	"github.com/devicelab-dev/todo-e2e/pkg/config"
	"github.com/devicelab-dev/todo-e2e/pkg/device"
	"github.com/devicelab-dev/todo-e2e/pkg/logger"
)

// DeviceResolver turns a device specifier into a concrete serial.
// *device.Resolver implements it.
type DeviceResolver interface {
	Resolve(ctx context.Context, raw, override string) string
}

// Builder builds capability sets from configuration.
type Builder struct {
	cfg      *config.Config
	resolver DeviceResolver
}

// NewBuilder creates a Builder. The resolver is only consulted for Android;
// nil means resolve through `adb devices`.
func NewBuilder(cfg *config.Config, resolver DeviceResolver) *Builder {
	if resolver == nil {
		resolver = device.NewResolver()
	}
	return &Builder{cfg: cfg, resolver: resolver}
}

// Build returns the capabilities for the given platform selector.
// deviceOverride is the --device value; "" means not given.
func (b *Builder) Build(ctx context.Context, platform, deviceOverride string) (*Capabilities, error) {
	p, err := ParsePlatform(platform)
	if err != nil {
		return nil, err
	}

	switch p {
	case Android:
		return b.android(ctx, deviceOverride), nil
	case IOS:
		return b.ios(), nil
	}
	panic("unreachable: ParsePlatform returned unknown platform")
}

// RemoteURL returns the Appium endpoint for platform.
func (b *Builder) RemoteURL(_ Platform) string {
	return b.cfg.RemoteURL
}

func (b *Builder) android(ctx context.Context, deviceOverride string) *Capabilities {
	a := b.cfg.Android
	deviceID := b.resolver.Resolve(ctx, a.DeviceName, deviceOverride)
	logger.Info("Android device: %s", deviceID)

	caps := map[string]interface{}{
		PlatformName:    "Android",
		AutomationName:  "UiAutomator2",
		DeviceName:      deviceID,
		UDID:            deviceID,
		AppPackage:      a.AppPackage,
		AppActivity:     a.AppActivity,
		AppWaitActivity: a.AppWaitActivity,
		// Reset app data per session so each scenario starts from an empty list.
		NoReset:              false,
		AutoGrantPermissions: true,
	}
	// Without an APK path Appium launches the installed app as is.
	if a.App != "" {
		caps[App] = a.App
	}
	return newCapabilities(Android, caps)
}

func (b *Builder) ios() *Capabilities {
	i := b.cfg.IOS
	return newCapabilities(IOS, map[string]interface{}{
		PlatformName:    "iOS",
		AutomationName:  "XCUITest",
		DeviceName:      i.DeviceName,
		PlatformVersion: i.PlatformVersion,
		BundleID:        i.BundleID,
		App:             i.App,
		NoReset:         false,
	})
}
