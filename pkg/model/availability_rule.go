package model

import (
	"fmt"
	"time"
)

// AvailabilityRule is a per-weekday open/close window for a workspace.
// Rules are replaced wholesale by the availability API, never patched.
type AvailabilityRule struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	WorkspaceID string    `json:"workspace_id" bson:"workspace_id" validate:"required,mongodb"`
	DayOfWeek   int       `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,time_of_day"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,time_of_day"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Window resolves the rule's open and close instants on the given date,
// in that date's location.
func (r *AvailabilityRule) Window(date time.Time) (time.Time, time.Time, error) {
	start, err := AtTimeOfDay(date, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_time %q: %w", r.StartTime, err)
	}
	end, err := AtTimeOfDay(date, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_time %q: %w", r.EndTime, err)
	}
	return start, end, nil
}

// ParseTimeOfDay parses an "HH:MM" wall-clock string.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// AtTimeOfDay places an "HH:MM" wall-clock string on the given date,
// preserving the date's location.
func AtTimeOfDay(date time.Time, s string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(s)
	if err != nil {
		return time.Time{}, err
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, hour, minute, 0, 0, date.Location()), nil
}

// Midnight truncates an instant to local midnight of its own location.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
