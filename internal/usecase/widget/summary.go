package widget

import (
	"fmt"
)

// Summary is the glanceable text of one widget entry
type Summary struct {
	Configured bool
	Headline   string // "$18174" or "Setup Required"
	Detail     string // "995 days left" or "Open app to configure"
	Progress   string // "9% complete"
	Fraction   float64
}

// Summarize renders an entry the way the widget displays it: whole dollars
// and a rounded percentage
func Summarize(entry Entry) Summary {
	if !entry.Derived.IsConfigured {
		return Summary{
			Headline: "Setup Required",
			Detail:   "Open app to configure",
		}
	}

	percentage := entry.Derived.CompletionPercentage
	return Summary{
		Configured: true,
		Headline:   "$" + entry.Derived.RemainingAmount.StringFixed(0),
		Detail:     fmt.Sprintf("%d days left", entry.Derived.DaysRemaining),
		Progress:   percentage.StringFixed(0) + "% complete",
		Fraction:   percentage.InexactFloat64() / 100,
	}
}
