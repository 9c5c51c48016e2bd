// internal/resolvers/extract/format.go
package extract

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// GroupedInt renders a value as a thousands-grouped integer: 12345678 ->
// "12,345,678".
func GroupedInt(v float64) string {
	return humanize.FormatFloat("#,###.", v)
}

// GroupedFloat renders a value thousands-grouped with a fixed number of
// decimal places: GroupedFloat(1500, 2) -> "1,500.00".
func GroupedFloat(v float64, decimals int) string {
	if decimals <= 0 {
		return GroupedInt(v)
	}
	return humanize.FormatFloat("#,###."+strings.Repeat("#", decimals), v)
}
