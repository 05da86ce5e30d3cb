// Package catalog holds the static activity category and feeling metadata.
// The lists are ordered the way the mobile clients render them.
package catalog

// ActivityType describes one activity category.
// Special types (rest, injured) carry no duration/level/feeling.
type ActivityType struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Special bool   `json:"special"`
}

type FeelingOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// PlannedMarkerColor is the muted calendar marker color used for planned
// (not yet completed) activities, regardless of their category.
const PlannedMarkerColor = "#9ca3af"

const (
	TypeRest    = "rest"
	TypeInjured = "injured"
)

var Types = []ActivityType{
	{Key: "dressage", Label: "Dressage", Icon: "🎯", Color: "#ef7474ff"},
	{Key: "jumping", Label: "Jumping", Icon: "🏇", Color: "#78a9d9ff"},
	{Key: "groundwork", Label: "Groundwork", Icon: "🤝", Color: "#a197cd"},
	{Key: "lunging", Label: "Lunging", Icon: "🔄", Color: "#dfa6cf"},
	{Key: "hacking", Label: "Hacking", Icon: "🌲", Color: "#7baf63ff"},
	{Key: TypeRest, Label: "Rest Day", Icon: "💤", Color: "#e3c558ff", Special: true},
	{Key: TypeInjured, Label: "Injured", Icon: "🩹", Color: "#7c7c7cff", Special: true},
	{Key: "other", Label: "Other", Icon: "✨", Color: "#FCB53B"},
}

var Feelings = []FeelingOption{
	{Key: "terrible", Label: "Terrible", Icon: "😞"},
	{Key: "poor", Label: "Poor", Icon: "😕"},
	{Key: "okay", Label: "Okay", Icon: "😐"},
	{Key: "good", Label: "Good", Icon: "😊"},
	{Key: "great", Label: "Great", Icon: "😄"},
}

// defaultType is returned for unknown category keys, so that records with a
// stale or mistyped category still render instead of failing.
var defaultType = ActivityType{Key: "other", Label: "Other", Icon: "✨", Color: "#FCB53B"}

func TypeByKey(key string) ActivityType {
	for _, t := range Types {
		if t.Key == key {
			return t
		}
	}
	return defaultType
}

func IsSpecial(key string) bool {
	for _, t := range Types {
		if t.Key == key {
			return t.Special
		}
	}
	return false
}

func ValidType(key string) bool {
	for _, t := range Types {
		if t.Key == key {
			return true
		}
	}
	return false
}

func FeelingByKey(key string) (FeelingOption, bool) {
	for _, f := range Feelings {
		if f.Key == key {
			return f, true
		}
	}
	return FeelingOption{}, false
}
