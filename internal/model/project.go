package model

import (
	"fmt"
	"time"
)

// ProjectColors is the fixed palette a project color must come from.
var ProjectColors = []string{
	"Pink", "Purple", "Red", "Orange", "Gold", "Green",
	"Teal", "Light Blue", "Dark Blue", "Midnight", "Dark Gray", "Gray",
}

// DefaultProjectColor is used when a project has no (or an unknown) color.
const DefaultProjectColor = "Light Blue"

// IsProjectColor reports whether c is a key of ProjectColors.
func IsProjectColor(c string) bool {
	for _, k := range ProjectColors {
		if k == c {
			return true
		}
	}
	return false
}

// TimeOfDay is an hour and minute used for recurring reminders.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// TimeOfDayFrom extracts the hour and minute of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "HH:MM" in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return TimeOfDayFrom(t), nil
}

// Valid reports whether the hour and minute are in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Project is a container of items. Deleting a project deletes its items.
type Project struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Detail       string     `json:"detail" db:"detail"`
	Color        string     `json:"color" db:"color"`
	Closed       bool       `json:"closed" db:"closed"`
	CreationDate time.Time  `json:"creation_date" db:"creation_date"`
	ReminderTime *TimeOfDay `json:"reminder_time,omitempty" db:"-"`
}

// DisplayTitle returns the title, or a placeholder when it is blank.
func (p Project) DisplayTitle() string {
	if p.Title == "" {
		return "New Project"
	}
	return p.Title
}

// DisplayColor returns the palette key to render the project with.
func (p Project) DisplayColor() string {
	if !IsProjectColor(p.Color) {
		return DefaultProjectColor
	}
	return p.Color
}

// CompletionAmount is the fraction of items that are completed, in [0, 1].
// It is informational only; closed projects still accept changes.
func CompletionAmount(items []Item) float64 {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return float64(done) / float64(len(items))
}

// ExampleProject is a closed project used by previews and tests.
func ExampleProject() Project {
	return Project{
		Title:        "Example Project",
		Detail:       "This is an example project",
		Color:        DefaultProjectColor,
		Closed:       true,
		CreationDate: time.Now(),
	}
}
