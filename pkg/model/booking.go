package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the booking statuses that hold a time slot. Completed,
// no-show and cancelled bookings are kept for history but never block a slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	WorkspaceID   string    `json:"workspace_id" bson:"workspace_id" validate:"required,mongodb"`
	ContactID     string    `json:"contact_id" bson:"contact_id" validate:"required,mongodb"`
	ServiceTypeID string    `json:"service_type_id" bson:"service_type_id" validate:"required,mongodb"`
	ScheduledAt   time.Time `json:"scheduled_at" bson:"scheduled_at" validate:"required"`
	// DurationMinutes is snapshotted from the service type at creation time.
	// Conflict checks always use this value, never the service's current
	// duration, so editing a service cannot retroactively resize bookings.
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=5,max=480"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed no_show cancelled"`
	Location        string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

func (b *Booking) EndTime() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Overlaps reports whether this booking's interval intersects
// [start, start+duration). Intervals are half-open, so a booking that ends
// exactly when another starts does not overlap it.
func (b *Booking) Overlaps(start time.Time, durationMinutes int) bool {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return b.ScheduledAt.Before(end) && start.Before(b.EndTime())
}

type BookingUpdate struct {
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" validate:"omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed no_show cancelled"`
}
