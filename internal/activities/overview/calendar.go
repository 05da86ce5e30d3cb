package overview

import (
	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/activities/catalog"
)

type Marker struct {
	Color string `json:"color"`
}

type DayMarkers struct {
	Markers  []Marker `json:"markers"`
	Selected bool     `json:"selected"`
}

// ComputeMarkers groups the supplied activities by date and produces the
// calendar marking data: up to maxDayMarkers markers per date, in input
// order, with planned activities rendered in the muted planned color instead
// of their category color. The 4th and later activities on a date are only
// dropped from the markers, nothing else.
//
// selectedDate, when non-empty, marks that date selected; a selected date
// without activities still gets a marker-free entry so the caller can
// highlight it.
func ComputeMarkers(acts []activities.Activity, selectedDate string) map[string]DayMarkers {
	marked := make(map[string]DayMarkers)
	for _, a := range acts {
		day := marked[a.Date]
		if len(day.Markers) < maxDayMarkers {
			color := catalog.TypeByKey(a.Type).Color
			if a.IsPlanned {
				color = catalog.PlannedMarkerColor
			}
			day.Markers = append(day.Markers, Marker{Color: color})
		}
		marked[a.Date] = day
	}

	if selectedDate != "" {
		day := marked[selectedDate]
		day.Selected = true
		if day.Markers == nil {
			day.Markers = []Marker{}
		}
		marked[selectedDate] = day
	}

	return marked
}
