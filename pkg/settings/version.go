package settings

// Version information for the settings module.
const (
	// Version is the current version of the settings module.
	Version = "0.1.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "0.1.0"
)
