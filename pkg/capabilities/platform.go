package capabilities

import (
	"strings"

	"github.com/devicelab-dev/todo-e2e/pkg/core"
)

// Platform is the target mobile platform.
type Platform int

const (
	Android Platform = iota + 1
	IOS
)

// String returns the lowercase platform name used on the command line.
func (p Platform) String() string {
	switch p {
	case Android:
		return "android"
	case IOS:
		return "ios"
	default:
		return "unknown"
	}
}

// MarshalText encodes the platform by name.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePlatform parses a platform selector, ignoring case and surrounding
// whitespace. Anything other than android or ios yields
// *core.UnsupportedPlatformError.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "android":
		return Android, nil
	case "ios":
		return IOS, nil
	default:
		return 0, &core.UnsupportedPlatformError{Value: s}
	}
}
