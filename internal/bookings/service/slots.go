package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/repository"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
)

// SlotGenerator computes the open start times for a workspace, date and
// service type. Every call recomputes from the current rules and ledger;
// nothing is cached, so a slot list is only ever advisory and the booking
// writer remains the authority.
type SlotGenerator struct {
	bookings repository.BookingRepository
	schedule repository.ScheduleReader
	cfg      *config.Config
}

func NewSlotGenerator(bookings repository.BookingRepository, schedule repository.ScheduleReader, cfg *config.Config) *SlotGenerator {
	return &SlotGenerator{
		bookings: bookings,
		schedule: schedule,
		cfg:      cfg,
	}
}

// AvailableSlots returns ordered "HH:MM" start times on the given date.
// An empty result is the normal signal for "nothing bookable": past dates,
// days without an active rule, and unknown or inactive service types all
// yield empty without error.
func (g *SlotGenerator) AvailableSlots(ctx context.Context, workspaceID string, date time.Time, serviceTypeID string) ([]string, error) {
	day := model.Midnight(date)
	today := model.Midnight(time.Now().In(date.Location()))
	if day.Before(today) {
		return []string{}, nil
	}

	rule, err := g.schedule.FindActiveRule(ctx, workspaceID, int(day.Weekday()))
	if err != nil {
		return nil, apperrors.Internal("Failed to load availability rule", err)
	}
	if rule == nil {
		return []string{}, nil
	}

	serviceType, err := g.schedule.FindServiceType(ctx, serviceTypeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrServiceTypeNotFound) {
			return []string{}, nil
		}
		return nil, apperrors.Internal("Failed to load service type", err)
	}
	if !serviceType.IsActive || serviceType.WorkspaceID != workspaceID {
		return []string{}, nil
	}

	windowStart, windowEnd, err := rule.Window(day)
	if err != nil {
		return nil, apperrors.Internal("Availability rule has malformed times", err)
	}
	if !windowEnd.After(windowStart) {
		return []string{}, nil
	}

	duration := time.Duration(serviceType.DurationMinutes) * time.Minute

	// One round trip covers the whole day: anything that could overlap a
	// slot starts after windowStart minus the maximum booking duration and
	// before windowEnd.
	lookback := time.Duration(g.cfg.MaxBookingDurationMin) * time.Minute
	booked, err := g.bookings.FindActiveBetween(ctx, workspaceID, windowStart.Add(-lookback), windowEnd)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for slot computation", err)
	}

	slots := []string{}
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(duration) {
		if !overlapsAny(booked, cursor, serviceType.DurationMinutes) {
			slots = append(slots, cursor.Format("15:04"))
		}
	}

	return slots, nil
}

func overlapsAny(bookings []*model.Booking, start time.Time, durationMinutes int) bool {
	for _, b := range bookings {
		if b.Overlaps(start, durationMinutes) {
			return true
		}
	}
	return false
}
