package main

import (
	"fmt"
	"io"
	"time"

	"github.com/simaogato/bondtracker-backend/internal/usecase/dashboard"
	"github.com/simaogato/bondtracker-backend/internal/usecase/setup"
	"github.com/simaogato/bondtracker-backend/internal/usecase/widget"
)

func printSummary(w io.Writer, s dashboard.TrackingSummary) {
	if s.Route == dashboard.RouteSetup {
		fmt.Fprintln(w, "Bond not configured. Run: bondtracker setup --amount <dollars> --days <days>")
		return
	}

	fmt.Fprintf(w, "Remaining bond:   %s\n", s.Remaining)
	fmt.Fprintf(w, "Progress:         %s\n", s.Progress)
	fmt.Fprintf(w, "Days served:      %d\n", s.Derived.DaysServed)
	fmt.Fprintf(w, "Days remaining:   %d\n", s.Derived.DaysRemaining)
	fmt.Fprintf(w, "Daily cost:       %s\n", s.DailyCost)
	fmt.Fprintf(w, "Total bond:       %s\n", s.TotalAmount)
	fmt.Fprintf(w, "Start date:       %s\n", s.StartDate)
	if s.Complete {
		fmt.Fprintln(w, "Service complete")
		return
	}
	fmt.Fprintf(w, "Estimated end:    %s\n", s.EstimatedEndDate)
}

func printPrefill(w io.Writer, in setup.SetupInput) {
	if in.Amount == "" {
		fmt.Fprintln(w, "No bond configured yet.")
		return
	}
	fmt.Fprintf(w, "amount=%s days=%s start=%s\n", in.Amount, in.Days, in.StartDate.Format(dateFlagLayout))
}

func printTimeline(w io.Writer, t widget.Timeline) {
	for _, entry := range t.Entries {
		s := widget.Summarize(entry)
		line := s.Headline + " | " + s.Detail
		if s.Configured {
			line += " | " + s.Progress
		}
		fmt.Fprintf(w, "%s  %s\n", entry.Date.Format(time.DateOnly), line)
	}
	if !t.NextRefresh.IsZero() {
		fmt.Fprintf(w, "next refresh: %s\n", t.NextRefresh.Format(time.RFC3339))
	}
}
