package netgsm

// Version information for the netgsm module.
const (
	// Version is the current version of the netgsm module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
