package overview

import (
	"time"

	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/activities/catalog"
)

type BreakdownEntry struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// ComputeBreakdown counts activities per category within the trailing window.
// Only categories actually present in the window appear in the result; entry
// order is the order in which each category was first encountered in the
// input, so the result is deterministic for a given activity collection.
// Unknown category keys resolve to the default descriptor.
func ComputeBreakdown(acts []activities.Activity, refDate time.Time, windowDays int) []BreakdownEntry {
	from, to := windowBounds(refDate, windowDays)

	entries := make([]BreakdownEntry, 0)
	indexByType := make(map[string]int)
	for _, a := range acts {
		if a.Date < from || a.Date > to {
			continue
		}
		if i, ok := indexByType[a.Type]; ok {
			entries[i].Count++
			continue
		}
		t := catalog.TypeByKey(a.Type)
		indexByType[a.Type] = len(entries)
		entries = append(entries, BreakdownEntry{
			Type:  a.Type,
			Label: t.Label,
			Color: t.Color,
			Count: 1,
		})
	}

	return entries
}
