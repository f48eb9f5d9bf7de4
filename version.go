package nextfetch

import "strings"

// DefaultDevVersion is the storage directory used for unreleased versions.
const DefaultDevVersion = "main"

// ResolveVersion returns the storage subdirectory for a version. Unreleased
// versions (those carrying a "+" local suffix) all share devVersion so that
// development builds do not download the same files again. An empty version
// means no subdirectory.
func ResolveVersion(version, devVersion string) string {
	if version == "" {
		return ""
	}
	if strings.Contains(version, "+") {
		if devVersion == "" {
			return DefaultDevVersion
		}
		return devVersion
	}
	return version
}
