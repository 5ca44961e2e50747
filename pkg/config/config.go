// Package config holds the run configuration for the Todo suite.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. The result is built once at start-up and treated
// as read-only afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
	"gopkg.in/yaml.v3"
)

// Defaults for a local run against an Appium server on this machine.
const (
	DefaultRemoteURL = "http://127.0.0.1:4723"
	DefaultTimeout   = 10.0 // seconds

	DefaultAndroidDeviceName      = "samsung SM-S908B"
	DefaultAndroidAppPackage      = "com.example.android.architecture.blueprints.main"
	DefaultAndroidAppActivity     = "com.example.android.architecture.blueprints.todoapp.TodoActivity"
	DefaultAndroidAppWaitActivity = "com.example.android.architecture.blueprints.*"

	// iOS values are placeholders; there is no real iOS build of the app.
	DefaultIOSDeviceName      = "iPhone Air"
	DefaultIOSPlatformVersion = "23.0"
	DefaultIOSBundleID        = "com.example.todo"
	DefaultIOSAppPath         = "/path/to/Todo.app"
)

// Config represents the suite configuration (config.yaml + environment).
type Config struct {
	RemoteURL string  `yaml:"remoteURL" json:"remoteURL"`
	Timeout   float64 `yaml:"timeout" json:"timeout"` // Element wait timeout in seconds

	Android AndroidConfig `yaml:"android" json:"android"`
	IOS     IOSConfig     `yaml:"ios" json:"ios"`
}

// AndroidConfig holds UiAutomator2 session settings.
type AndroidConfig struct {
	// DeviceName is the raw device specifier: a serial, or "", "any",
	// "any_active" to pick the first connected device.
	DeviceName      string `yaml:"deviceName" json:"deviceName"`
	AppPackage      string `yaml:"appPackage" json:"appPackage"`
	AppActivity     string `yaml:"appActivity" json:"appActivity"`
	AppWaitActivity string `yaml:"appWaitActivity" json:"appWaitActivity"`
	// App is an APK path. Empty launches the installed app without reinstalling.
	App string `yaml:"app" json:"app"`
}

// IOSConfig holds XCUITest session settings.
type IOSConfig struct {
	DeviceName      string `yaml:"deviceName" json:"deviceName"`
	PlatformVersion string `yaml:"platformVersion" json:"platformVersion"`
	BundleID        string `yaml:"bundleId" json:"bundleId"`
	App             string `yaml:"app" json:"app"`
}

// LookupFunc reports the value of an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		RemoteURL: DefaultRemoteURL,
		Timeout:   DefaultTimeout,
		Android: AndroidConfig{
			DeviceName:      DefaultAndroidDeviceName,
			AppPackage:      DefaultAndroidAppPackage,
			AppActivity:     DefaultAndroidAppActivity,
			AppWaitActivity: DefaultAndroidAppWaitActivity,
		},
		IOS: IOSConfig{
			DeviceName:      DefaultIOSDeviceName,
			PlatformVersion: DefaultIOSPlatformVersion,
			BundleID:        DefaultIOSBundleID,
			App:             DefaultIOSAppPath,
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("parse %s", path)).WithCause(err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return defaults
	return Default(), nil
}

// New builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then environment variables.
// A nil lookup reads the process environment.
func New(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	return cfg.WithEnv(lookup)
}

// WithEnv returns a copy of cfg with environment overrides applied.
// A variable that is set but empty overrides the value with "".
func (c *Config) WithEnv(lookup LookupFunc) (*Config, error) {
	out := *c

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	str("remote_url", &out.RemoteURL)
	str("android_deviceName", &out.Android.DeviceName)
	str("android_appPackage", &out.Android.AppPackage)
	str("android_appActivity", &out.Android.AppActivity)
	str("android_appWaitActivity", &out.Android.AppWaitActivity)
	str("android_app", &out.Android.App)
	str("ios_deviceName", &out.IOS.DeviceName)
	str("ios_platformVersion", &out.IOS.PlatformVersion)
	str("ios_bundleId", &out.IOS.BundleID)
	str("ios_app", &out.IOS.App)

	if v, ok := lookup("timeout"); ok && v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("timeout %q is not a number", v)).WithCause(err)
		}
		out.Timeout = secs
	}

	if err := out.validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitTimeout returns the element wait timeout as a duration.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("timeout must be positive, got %v", c.Timeout))
	}
	if c.RemoteURL == "" {
		return core.ErrInvalidConfig.WithMessage("remote_url must not be empty")
	}
	return nil
}
