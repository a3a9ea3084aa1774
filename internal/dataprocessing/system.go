package dataprocessing

import (
	"strings"
)

const (
	// SystemTrackSwitch is assigned when the description mentions a switch.
	SystemTrackSwitch = "Track switch"

	systemPrefix      = "YM"
	trackSwitchMarker = "sw"
)

// DeriveSystem returns the system identifier of a malfunction. A description
// containing "SW" (any case) names a track switch; otherwise the system is
// "YM" followed by the last two characters of the location, taken literally.
// A one-character location is left-padded with "0" and an empty location
// yields an empty system.
func DeriveSystem(location, description string) string {
	if strings.Contains(strings.ToLower(description), trackSwitchMarker) {
		return SystemTrackSwitch
	}
	runes := []rune(strings.TrimSpace(location))
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return systemPrefix + "0" + string(runes)
	default:
		return systemPrefix + string(runes[len(runes)-2:])
	}
}

// NeedsLiteralText reports whether a location must be written as literal
// text because a spreadsheet would otherwise read its leading minus sign as
// the start of a formula or a negative number.
func NeedsLiteralText(location string) bool {
	return strings.HasPrefix(strings.TrimSpace(location), "-")
}
