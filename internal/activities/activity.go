package activities

import (
	"errors"
	"time"
)

// DateLayout is the calendar date format used throughout: ISO 8601 dates are
// string-comparable, so chronological checks never need wall-clock parsing.
const DateLayout = "2006-01-02"

// ErrInvalidDate marks a date string that does not parse as DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// Activity is one logged or planned training/rest/injury record for a horse.
// Duration, Level and Feeling are nil for special types (rest, injured).
type Activity struct {
	ID        string    `json:"id"`
	HorseID   string    `json:"horse_id"`
	Date      string    `json:"date"` // DateLayout format
	Type      string    `json:"type"`
	Duration  *int      `json:"duration"` // minutes
	Level     *int      `json:"level"`    // exertion 1..5
	Feeling   *string   `json:"feeling"`
	Notes     string    `json:"notes"`
	IsPlanned bool      `json:"is_planned"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Day returns the activity date at day granularity, UTC midnight.
func (a Activity) Day() (time.Time, error) {
	return time.Parse(DateLayout, a.Date)
}
