// Package misc keeps build time information about the program.
package misc

// set by linker: -X h2d/misc.version=... -X h2d/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
	appName = "h2d"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit the program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name used for logs, reports and temporary files.
func GetAppName() string {
	return appName
}
