// Package banner renders the startup banner.
package banner

import "fmt"

// Banner returns the startup banner with the version appended.
func Banner(version string) string {
	return fmt.Sprintf(`
 _ _ _ ___ ___ ___  _ _ ___ ___
| | | | . |  _| . || | | -_|  _|
|_____|___|_| |___| \_/|___|___|  %s

`, version)
}
