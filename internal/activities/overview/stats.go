// Package overview contains the pure aggregation engines behind the dashboard
// and calendar screens: rolling-window stats, category breakdowns, the weekly
// overview strip and calendar day markers. Every function here takes the
// activity collection and the reference "today" as explicit inputs and keeps
// no state, so the same inputs always produce the same outputs.
package overview

import (
	"time"

	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/activities/catalog"
)

// DefaultWindowDays is the trailing window used by the dashboard cards.
const DefaultWindowDays = 30

type Stats struct {
	TotalSessions int `json:"totalSessions"`
	TotalMinutes  int `json:"totalMinutes"`
	RestDays      int `json:"restDays"`
}

// ComputeStats aggregates the trailing windowDays-day window ending at (and
// including) refDate. Sessions count every record in the window, planned and
// special types included. Rest days are the explicitly logged rest records
// plus every window day without any activity; for horses tracked for fewer
// than windowDays days this inflates the count, which mirrors what the app
// has always shown.
func ComputeStats(acts []activities.Activity, refDate time.Time, windowDays int) Stats {
	from, to := windowBounds(refDate, windowDays)

	var stats Stats
	activeDates := make(map[string]struct{})
	for _, a := range acts {
		if a.Date < from || a.Date > to {
			continue
		}
		stats.TotalSessions++
		if a.Duration != nil {
			stats.TotalMinutes += *a.Duration
		}
		if a.Type == catalog.TypeRest {
			stats.RestDays++
		}
		activeDates[a.Date] = struct{}{}
	}

	stats.RestDays += windowDays - len(activeDates)
	return stats
}

// windowBounds returns the inclusive [from, to] date strings for the trailing
// window. Comparison happens on DateLayout strings, i.e. at day granularity,
// so the time of day of refDate cannot cause off-by-one windows.
func windowBounds(refDate time.Time, windowDays int) (from, to string) {
	from = refDate.AddDate(0, 0, -windowDays).Format(activities.DateLayout)
	to = refDate.Format(activities.DateLayout)
	return from, to
}
