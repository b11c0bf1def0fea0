package log

// Version information for the dvcsettings log module.
const (
	// Version is the current version of the log module.
	Version = "0.1.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "0.1.0"
)
