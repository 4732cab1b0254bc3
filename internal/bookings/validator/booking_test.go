package validator

import (
	"testing"
	"time"

	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func validBooking() *model.Booking {
	return &model.Booking{
		WorkspaceID:     "64b5f0a1c2d3e4f5a6b7c8d9",
		ContactID:       "64b5f0a1c2d3e4f5a6b7c8d1",
		ServiceTypeID:   "64b5f0a1c2d3e4f5a6b7c8d2",
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())
	assert.NoError(t, v.Validate(validBooking()))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Booking)
	}{
		{"missing workspace", func(b *model.Booking) { b.WorkspaceID = "" }},
		{"malformed workspace id", func(b *model.Booking) { b.WorkspaceID = "not-an-object-id" }},
		{"missing contact", func(b *model.Booking) { b.ContactID = "" }},
		{"missing service type", func(b *model.Booking) { b.ServiceTypeID = "" }},
		{"zero duration", func(b *model.Booking) { b.DurationMinutes = 0 }},
		{"duration below minimum", func(b *model.Booking) { b.DurationMinutes = 3 }},
		{"duration above maximum", func(b *model.Booking) { b.DurationMinutes = 481 }},
		{"unknown status", func(b *model.Booking) { b.Status = "tentative" }},
		{"past start", func(b *model.Booking) { b.ScheduledAt = time.Now().Add(-time.Minute) }},
	}

	v := NewBookingValidator(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			assert.Error(t, v.Validate(b))
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	future := time.Now().Add(time.Hour)
	require.NoError(t, v.ValidateUpdate(&model.BookingUpdate{ScheduledAt: &future}))

	past := time.Now().Add(-time.Hour)
	assert.Error(t, v.ValidateUpdate(&model.BookingUpdate{ScheduledAt: &past}))
}

func TestValidateStatusUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	for _, status := range []string{
		model.StatusPending, model.StatusConfirmed, model.StatusCompleted,
		model.StatusNoShow, model.StatusCancelled,
	} {
		assert.NoError(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}), status)
	}

	assert.Error(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: "archived"}))
	assert.Error(t, v.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: ""}))
}
