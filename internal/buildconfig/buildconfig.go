package buildconfig

// Injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the build version string.
func Version() string { return version }

// Commit returns the git commit the binary was built from.
func Commit() string { return commit }
