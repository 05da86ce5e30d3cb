package overview

import (
	"time"

	"github.com/mkovacevic/equilog/internal/activities"
	"github.com/mkovacevic/equilog/internal/activities/catalog"
)

// maxDayMarkers caps the colored activity dots shown per calendar day.
const maxDayMarkers = 3

type WeekDay struct {
	Date         string   `json:"date"` // DateLayout format
	DayLabel     string   `json:"dayLabel"`
	DayNumber    int      `json:"dayNumber"`
	IsToday      bool     `json:"isToday"`
	MarkerColors []string `json:"markerColors"`
}

// ComputeWeek builds the Monday-to-Sunday week containing refDate. Each of
// the 7 days carries up to maxDayMarkers category colors, taken from the
// first activities on that date in input order.
func ComputeWeek(acts []activities.Activity, refDate time.Time) []WeekDay {
	monday := startOfWeek(refDate)
	today := refDate.Format(activities.DateLayout)

	week := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		date := day.Format(activities.DateLayout)
		week = append(week, WeekDay{
			Date:         date,
			DayLabel:     day.Weekday().String()[:3],
			DayNumber:    day.Day(),
			IsToday:      date == today,
			MarkerColors: markerColorsForDate(acts, date),
		})
	}
	return week
}

// startOfWeek returns the Monday of the week containing t. Weeks start on
// Monday regardless of locale; time.Weekday counts Sunday as 0.
func startOfWeek(t time.Time) time.Time {
	diff := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		diff = 6
	}
	return t.AddDate(0, 0, -diff)
}

func markerColorsForDate(acts []activities.Activity, date string) []string {
	colors := make([]string, 0, maxDayMarkers)
	for _, a := range acts {
		if a.Date != date {
			continue
		}
		colors = append(colors, catalog.TypeByKey(a.Type).Color)
		if len(colors) == maxDayMarkers {
			break
		}
	}
	return colors
}
