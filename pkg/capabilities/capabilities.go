// Package capabilities assembles the Appium capability set used to start a
// session against the Todo app on Android (UiAutomator2) or iOS (XCUITest).
package capabilities

import (
	"encoding/json"
	"sort"
)

// W3C / Appium capability names.
const (
	PlatformName         = "platformName"
	AutomationName       = "appium:automationName"
	DeviceName           = "appium:deviceName"
	UDID                 = "appium:udid"
	AppPackage           = "appium:appPackage"
	AppActivity          = "appium:appActivity"
	AppWaitActivity      = "appium:appWaitActivity"
	App                  = "appium:app"
	NoReset              = "appium:noReset"
	AutoGrantPermissions = "appium:autoGrantPermissions"
	PlatformVersion      = "appium:platformVersion"
	BundleID             = "appium:bundleId"
)

// Capabilities is an immutable set of named session options.
// The zero value is an empty set.
type Capabilities struct {
	platform Platform
	values   map[string]interface{}
}

func newCapabilities(p Platform, values map[string]interface{}) *Capabilities {
	return &Capabilities{platform: p, values: values}
}

// Platform returns the platform the set was built for.
func (c *Capabilities) Platform() Platform {
	return c.platform
}

// Get returns the value of a capability and whether it is present.
func (c *Capabilities) Get(name string) (interface{}, bool) {
	v, ok := c.values[name]
	return v, ok
}

// String returns a string capability, or "" if absent or not a string.
func (c *Capabilities) String(name string) string {
	s, _ := c.values[name].(string)
	return s
}

// Bool returns a boolean capability and whether it is present as a bool.
func (c *Capabilities) Bool(name string) (value, ok bool) {
	value, ok = c.values[name].(bool)
	return value, ok
}

// Has reports whether the capability is present.
func (c *Capabilities) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Len returns the number of capabilities.
func (c *Capabilities) Len() int {
	return len(c.values)
}

// Names returns capability names in sorted order.
func (c *Capabilities) Names() []string {
	names := make([]string, 0, len(c.values))
	for k := range c.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AsMap returns a fresh copy suitable for a session request body.
// Changes to the copy do not affect c.
func (c *Capabilities) AsMap() map[string]interface{} {
	out := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the set as a JSON object.
func (c *Capabilities) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.AsMap())
}

// MarshalYAML encodes the set as a YAML mapping.
func (c *Capabilities) MarshalYAML() (interface{}, error) {
	return c.AsMap(), nil
}
