package model

import "time"

// ServiceType is a bookable service offered by a workspace. Its duration
// drives both slot spacing and the conflict window of new bookings.
type ServiceType struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	WorkspaceID     string    `json:"workspace_id" bson:"workspace_id" validate:"required,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description     string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=5,max=480"`
	Location        string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	IsActive        bool      `json:"is_active" bson:"is_active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

type ServiceTypeUpdate struct {
	Name            string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Location        *string `json:"location,omitempty" validate:"omitempty,max=200"`
	IsActive        *bool   `json:"is_active,omitempty"`
}
