package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"reservo/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, workspaceID string, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	AvailableSlots(ctx context.Context, workspaceID string, date time.Time, serviceTypeID string) ([]string, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	schedule  repository.ScheduleReader
	validator *validator.BookingValidator
	detector  *ConflictDetector
	slots     *SlotGenerator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	schedule repository.ScheduleReader,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		schedule:  schedule,
		validator: bookingValidator,
		detector:  NewConflictDetector(repo, cfg),
		slots:     NewSlotGenerator(repo, schedule, cfg),
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	serviceType, err := s.resolveServiceType(ctx, booking.WorkspaceID, booking.ServiceTypeID)
	if err != nil {
		return err
	}

	// Snapshot the duration so later catalog edits cannot resize this booking.
	booking.DurationMinutes = serviceType.DurationMinutes
	if booking.Location == "" {
		booking.Location = serviceType.Location
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	lockID, err := s.acquireWorkspaceLock(ctx, booking.WorkspaceID)
	if err != nil {
		return err
	}
	defer s.releaseWorkspaceLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, booking.WorkspaceID, booking.ScheduledAt, booking.DurationMinutes, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"workspace_id", booking.WorkspaceID,
			"scheduled_at", booking.ScheduledAt,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"workspace_id", booking.WorkspaceID,
		"service_type_id", booking.ServiceTypeID,
		"scheduled_at", booking.ScheduledAt,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, workspaceID string, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if workspaceID == "" {
		return nil, 0, apperrors.InvalidInput("workspace_id is required")
	}
	if filter.Status != "" && !isKnownStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status filter: %s", filter.Status))
	}

	count, err := s.repo.CountByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "workspace_id", workspaceID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindByWorkspace(ctx, workspaceID, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "workspace_id", workspaceID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)

	rescheduling := updates.ScheduledAt != nil && !updates.ScheduledAt.Equal(existing.ScheduledAt)
	if rescheduling && !existing.IsActive() {
		return nil, apperrors.Validation("Only pending or confirmed bookings can be rescheduled", map[string]any{
			"status": existing.Status,
		})
	}

	if !rescheduling {
		// Location/notes only, no slot movement: no lock, no conflict check.
		if err := s.repo.UpdateSchedule(ctx, id, merged); err != nil {
			return nil, apperrors.Internal("Failed to update booking", err)
		}
		s.cfg.Log.Info("Booking updated successfully", "id", id)
		return merged, nil
	}

	if err := s.validate(merged); err != nil {
		return nil, err
	}

	lockID, err := s.acquireWorkspaceLock(ctx, merged.WorkspaceID)
	if err != nil {
		return nil, err
	}
	defer s.releaseWorkspaceLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, merged.WorkspaceID, merged.ScheduledAt, merged.DurationMinutes, id); err != nil {
			return err
		}
		if err := s.repo.UpdateSchedule(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to reschedule booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking rescheduled successfully",
		"id", id,
		"workspace_id", merged.WorkspaceID,
		"scheduled_at", merged.ScheduledAt,
	)
	return merged, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(&model.BookingStatusUpdate{Status: status}); err != nil {
		return nil, apperrors.Validation("Invalid status", map[string]any{"error": err.Error()})
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == status {
		return existing, nil
	}

	// Reviving a terminal booking re-occupies its slot, so it runs the same
	// discipline as a create. Transitions between or into terminal statuses
	// only free a slot and never need conflict logic.
	reactivating := !existing.IsActive() && isActiveStatus(status)

	if !reactivating {
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("Booking", id)
			}
			return nil, apperrors.Internal("Failed to update booking status", err)
		}
		existing.Status = status
		s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
		return existing, nil
	}

	lockID, err := s.acquireWorkspaceLock(ctx, existing.WorkspaceID)
	if err != nil {
		return nil, err
	}
	defer s.releaseWorkspaceLock(ctx, lockID)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, existing.WorkspaceID, existing.ScheduledAt, existing.DurationMinutes, id); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(sessCtx, id, status); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reactivate booking", "id", id, "error", err)
		return nil, err
	}

	existing.Status = status
	s.cfg.Log.Info("Booking reactivated", "id", id, "status", status)
	return existing, nil
}

// Cancel flips the booking to cancelled. The row is kept for history; the
// slot frees immediately.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.UpdateStatus(ctx, id, model.StatusCancelled)
}

func (s *bookingService) AvailableSlots(ctx context.Context, workspaceID string, date time.Time, serviceTypeID string) ([]string, error) {
	if workspaceID == "" || serviceTypeID == "" {
		return nil, apperrors.InvalidInput("workspace_id and service_type_id are required")
	}
	return s.slots.AvailableSlots(ctx, workspaceID, date, serviceTypeID)
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusConfirmed
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Location = sanitizer.TrimAndNormalize(b.Location)
	b.Notes = sanitizer.NormalizeNotes(b.Notes)
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.ScheduledAt != nil {
		merged.ScheduledAt = *updates.ScheduledAt
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) resolveServiceType(ctx context.Context, workspaceID, serviceTypeID string) (*model.ServiceType, error) {
	serviceType, err := s.schedule.FindServiceType(ctx, serviceTypeID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrServiceTypeNotFound) {
			return nil, apperrors.NotFoundWithID("Service type", serviceTypeID)
		}
		return nil, apperrors.Internal("Failed to resolve service type", err)
	}
	if serviceType.WorkspaceID != workspaceID {
		return nil, apperrors.NotFoundWithID("Service type", serviceTypeID)
	}
	if !serviceType.IsActive {
		return nil, apperrors.Validation("Service type is not active", map[string]any{
			"service_type_id": serviceTypeID,
		})
	}
	return serviceType, nil
}

// verifySlotFree runs the exact conflict test. It is always called inside
// the workspace lock and the surrounding transaction.
func (s *bookingService) verifySlotFree(ctx context.Context, workspaceID string, start time.Time, durationMinutes int, excludeID string) error {
	conflict, err := s.detector.FindConflict(ctx, workspaceID, start, durationMinutes, excludeID)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if conflict != nil {
		return apperrors.Conflict(fmt.Sprintf(
			"Requested time overlaps an existing booking (%s - %s)",
			conflict.ScheduledAt.Format(time.RFC3339),
			conflict.EndTime().Format(time.RFC3339),
		))
	}
	return nil
}

// acquireWorkspaceLock serializes booking writes per workspace. Contending
// requests retry until LockAcquireTimeout elapses, then surface a conflict.
func (s *bookingService) acquireWorkspaceLock(ctx context.Context, workspaceID string) (string, error) {
	lockID := fmt.Sprintf("booking_ws_%s", workspaceID)
	deadline := time.Now().Add(s.cfg.LockAcquireTimeout)

	for {
		lock := &model.BookingLock{
			ID:        lockID,
			ExpiresAt: time.Now().Add(s.cfg.LockTTL),
		}

		err := s.lockRepo.Acquire(ctx, lock)
		if err == nil {
			return lockID, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Internal("Failed to acquire booking lock", err)
		}
		if time.Now().After(deadline) {
			return "", apperrors.Conflict("Another booking for this workspace is in progress. Please try again.")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Timeout("Booking lock acquisition cancelled")
		case <-time.After(s.cfg.LockRetryInterval):
		}
	}
}

func (s *bookingService) releaseWorkspaceLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
	}
}

func isKnownStatus(status string) bool {
	switch status {
	case model.StatusPending, model.StatusConfirmed, model.StatusCompleted, model.StatusNoShow, model.StatusCancelled:
		return true
	}
	return false
}

func isActiveStatus(status string) bool {
	return status == model.StatusPending || status == model.StatusConfirmed
}
