package service

import (
	"context"
	"time"

	"reservo/internal/bookings/repository"
	"reservo/pkg/config"
	"reservo/pkg/model"
)

// ConflictDetector answers whether a candidate interval collides with any
// active booking in the same workspace.
//
// The repository prefilter only bounds scheduled_at: it keeps bookings
// starting before the candidate ends and no more than the maximum booking
// duration before the candidate starts. The exact half-open interval test
// then runs in memory against each booking's own snapshotted duration, so a
// service type edited after the fact can never change the outcome.
type ConflictDetector struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewConflictDetector(repo repository.BookingRepository, cfg *config.Config) *ConflictDetector {
	return &ConflictDetector{
		repo: repo,
		cfg:  cfg,
	}
}

// FindConflict returns the first active booking overlapping
// [start, start+durationMinutes), or nil when the interval is free.
// excludeID skips the booking being rescheduled.
func (d *ConflictDetector) FindConflict(ctx context.Context, workspaceID string, start time.Time, durationMinutes int, excludeID string) (*model.Booking, error) {
	lookback := time.Duration(d.cfg.MaxBookingDurationMin) * time.Minute
	earliest := start.Add(-lookback)
	latest := start.Add(time.Duration(durationMinutes) * time.Minute)

	candidates, err := d.repo.FindActiveBetween(ctx, workspaceID, earliest, latest)
	if err != nil {
		return nil, err
	}

	for _, b := range candidates {
		if b.ID == excludeID {
			continue
		}
		if b.Overlaps(start, durationMinutes) {
			return b, nil
		}
	}

	return nil, nil
}

// HasConflict reports whether the candidate interval collides with any
// active booking.
func (d *ConflictDetector) HasConflict(ctx context.Context, workspaceID string, start time.Time, durationMinutes int, excludeID string) (bool, error) {
	conflict, err := d.FindConflict(ctx, workspaceID, start, durationMinutes, excludeID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}
