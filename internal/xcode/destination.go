package xcode

import (
	"errors"
	"fmt"
)

// Platform identifies the Apple platform a build targets.
type Platform string

const (
	PlatformMacOS            Platform = "macOS"
	PlatformIOS              Platform = "iOS"
	PlatformIOSSimulator     Platform = "iOS Simulator"
	PlatformWatchOS          Platform = "watchOS"
	PlatformWatchOSSimulator Platform = "watchOS Simulator"
	PlatformTVOS             Platform = "tvOS"
	PlatformTVOSSimulator    Platform = "tvOS Simulator"
	PlatformVisionOS         Platform = "visionOS"
	PlatformVisionOSSim      Platform = "visionOS Simulator"
)

// IsSimulator reports whether p is a simulator platform.
func (p Platform) IsSimulator() bool {
	switch p {
	case PlatformIOSSimulator, PlatformWatchOSSimulator, PlatformTVOSSimulator, PlatformVisionOSSim:
		return true
	}
	return false
}

// Target describes the resolved destination intent for a build.
//
// For simulator platforms exactly one of SimulatorID / SimulatorName must
// be set. UseLatestOS is ignored when SimulatorID is set — an id already
// pins an exact OS. Arch applies to macOS only; DeviceID to physical
// device platforms only.
type Target struct {
	Platform      Platform
	SimulatorID   string
	SimulatorName string
	DeviceID      string
	// UseLatestOS defaults to true when nil.
	UseLatestOS *bool
	Arch        string
}

// ErrMissingSimulatorSelector is returned when a simulator platform has
// neither an id nor a name to target.
var ErrMissingSimulatorSelector = errors.New(
	"either simulatorId or simulatorName must be provided for this platform")

// ResolveDestination maps a Target to the xcodebuild -destination token.
func ResolveDestination(t Target) (string, error) {
	switch t.Platform {
	case PlatformMacOS:
		if t.Arch != "" {
			return fmt.Sprintf("platform=macOS,arch=%s", t.Arch), nil
		}
		return "platform=macOS", nil

	case PlatformIOSSimulator, PlatformWatchOSSimulator, PlatformTVOSSimulator, PlatformVisionOSSim:
		if t.SimulatorID != "" {
			// An id pins the exact device and OS; no OS clause.
			return fmt.Sprintf("platform=%s,id=%s", t.Platform, t.SimulatorID), nil
		}
		if t.SimulatorName != "" {
			token := fmt.Sprintf("platform=%s,name=%s", t.Platform, t.SimulatorName)
			if t.UseLatestOS == nil || *t.UseLatestOS {
				token += ",OS=latest"
			}
			return token, nil
		}
		return "", ErrMissingSimulatorSelector

	case PlatformIOS, PlatformWatchOS, PlatformTVOS, PlatformVisionOS:
		if t.DeviceID != "" {
			return fmt.Sprintf("platform=%s,id=%s", t.Platform, t.DeviceID), nil
		}
		// Destination-agnostic build, e.g. validating a scheme without a
		// concrete device attached.
		return fmt.Sprintf("generic/platform=%s", t.Platform), nil

	default:
		return "", fmt.Errorf("unsupported platform: %q", t.Platform)
	}
}
