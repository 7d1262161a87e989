// ABOUTME: Product and version constants
// ABOUTME: Reported in log banners and the TUI header
package version

import "fmt"

const (
	Product      = "hitsync"
	Manufacturer = "Sendspin"
	Version      = "0.3.0"
)

// Banner returns the product line shown at startup
func Banner() string {
	return fmt.Sprintf("%s %s (%s)", Product, Version, Manufacturer)
}
