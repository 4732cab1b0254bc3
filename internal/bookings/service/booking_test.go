package service

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	testWorkspaceID   = "64b5f0a1c2d3e4f5a6b7c8d9"
	testContactID     = "64b5f0a1c2d3e4f5a6b7c8d1"
	testServiceTypeID = "64b5f0a1c2d3e4f5a6b7c8d2"
)

// Mock repositories in the function-field style.

type mockBookingRepository struct {
	createFunc            func(ctx context.Context, booking *model.Booking) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Booking, error)
	findByWorkspaceFunc   func(ctx context.Context, workspaceID string, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, error)
	countByWorkspaceFunc  func(ctx context.Context, workspaceID string, filter repository.ListFilter) (int64, error)
	findActiveBetweenFunc func(ctx context.Context, workspaceID string, earliestStart, latestStart time.Time) ([]*model.Booking, error)
	updateScheduleFunc    func(ctx context.Context, id string, booking *model.Booking) error
	updateStatusFunc      func(ctx context.Context, id string, status string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = primitive.NewObjectID().Hex()
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByWorkspace(ctx context.Context, workspaceID string, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByWorkspaceFunc != nil {
		return m.findByWorkspaceFunc(ctx, workspaceID, filter, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByWorkspace(ctx context.Context, workspaceID string, filter repository.ListFilter) (int64, error) {
	if m.countByWorkspaceFunc != nil {
		return m.countByWorkspaceFunc(ctx, workspaceID, filter)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindActiveBetween(ctx context.Context, workspaceID string, earliestStart, latestStart time.Time) ([]*model.Booking, error) {
	if m.findActiveBetweenFunc != nil {
		return m.findActiveBetweenFunc(ctx, workspaceID, earliestStart, latestStart)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateSchedule(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateScheduleFunc != nil {
		return m.updateScheduleFunc(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	mu       sync.Mutex
	held     map[string]bool
	acquires int
}

func newMockLockRepository() *mockLockRepository {
	return &mockLockRepository{held: map[string]bool{}}
}

func (m *mockLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquires++
	if m.held[lock.ID] {
		return bookingserrors.ErrLockHeld
	}
	m.held[lock.ID] = true
	return nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	return nil
}

func (m *mockLockRepository) acquireCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquires
}

type mockScheduleReader struct {
	findActiveRuleFunc  func(ctx context.Context, workspaceID string, dayOfWeek int) (*model.AvailabilityRule, error)
	findServiceTypeFunc func(ctx context.Context, id string) (*model.ServiceType, error)
}

func (m *mockScheduleReader) FindActiveRule(ctx context.Context, workspaceID string, dayOfWeek int) (*model.AvailabilityRule, error) {
	if m.findActiveRuleFunc != nil {
		return m.findActiveRuleFunc(ctx, workspaceID, dayOfWeek)
	}
	return nil, nil
}

func (m *mockScheduleReader) FindServiceType(ctx context.Context, id string) (*model.ServiceType, error) {
	if m.findServiceTypeFunc != nil {
		return m.findServiceTypeFunc(ctx, id)
	}
	return nil, bookingserrors.ErrServiceTypeNotFound
}

func activeServiceType(durationMinutes int) *model.ServiceType {
	return &model.ServiceType{
		ID:              testServiceTypeID,
		WorkspaceID:     testWorkspaceID,
		Name:            "Consultation",
		DurationMinutes: durationMinutes,
		IsActive:        true,
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		MaxBookingDurationMin: 480,
		MinBookingDurationMin: 5,
		LockTTL:               10 * time.Second,
		LockRetryInterval:     time.Millisecond,
		LockAcquireTimeout:    500 * time.Millisecond,
	}
}

func newTestService(t *testing.T, repo repository.BookingRepository, locks repository.BookingLockRepository, schedule repository.ScheduleReader) BookingService {
	t.Helper()
	cfg := testConfig(t)
	return NewBookingService(repo, locks, schedule, validator.NewBookingValidator(cfg.Log), cfg)
}

func futureAt(hour, minute int) time.Time {
	day := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func newBookingRequest(start time.Time) *model.Booking {
	return &model.Booking{
		WorkspaceID:   testWorkspaceID,
		ContactID:     testContactID,
		ServiceTypeID: testServiceTypeID,
		ScheduledAt:   start,
	}
}

func TestCreate_SnapshotsDurationAndDefaultsStatus(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = primitive.NewObjectID().Hex()
			created = booking
			return nil
		},
	}
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(45), nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), schedule)

	booking := newBookingRequest(futureAt(10, 0))
	err := svc.Create(context.Background(), booking)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 45, created.DurationMinutes)
	assert.Equal(t, model.StatusConfirmed, created.Status)
	assert.NotEmpty(t, created.ID)
}

func TestCreate_OverlapRejectedNothingWritten(t *testing.T) {
	start := futureAt(10, 0)
	existing := &model.Booking{
		ID:              primitive.NewObjectID().Hex(),
		WorkspaceID:     testWorkspaceID,
		ScheduledAt:     start.Add(-30 * time.Minute),
		DurationMinutes: 60, // runs until 10:30, overlaps a 10:00 start
		Status:          model.StatusConfirmed,
	}

	createCalled := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			createCalled = true
			return nil
		},
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(60), nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), schedule)

	err := svc.Create(context.Background(), newBookingRequest(start))

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "expected CONFLICT, got %v", err)
	assert.False(t, createCalled, "conflicting create must not reach the store")
}

func TestCreate_AdjacentBookingAllowed(t *testing.T) {
	start := futureAt(10, 0)
	existing := &model.Booking{
		ID:              primitive.NewObjectID().Hex(),
		WorkspaceID:     testWorkspaceID,
		ScheduledAt:     start.Add(-60 * time.Minute),
		DurationMinutes: 60, // ends exactly at 10:00
		Status:          model.StatusConfirmed,
	}

	repo := &mockBookingRepository{
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(60), nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), schedule)

	err := svc.Create(context.Background(), newBookingRequest(start))
	assert.NoError(t, err, "back-to-back bookings must coexist")
}

func TestCreate_UnknownServiceType(t *testing.T) {
	schedule := &mockScheduleReader{} // FindServiceType defaults to not found
	svc := newTestService(t, &mockBookingRepository{}, newMockLockRepository(), schedule)

	err := svc.Create(context.Background(), newBookingRequest(futureAt(10, 0)))

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestCreate_InactiveServiceType(t *testing.T) {
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			st := activeServiceType(30)
			st.IsActive = false
			return st, nil
		},
	}
	svc := newTestService(t, &mockBookingRepository{}, newMockLockRepository(), schedule)

	err := svc.Create(context.Background(), newBookingRequest(futureAt(10, 0)))

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestCreate_PastStartRejected(t *testing.T) {
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(30), nil
		},
	}
	svc := newTestService(t, &mockBookingRepository{}, newMockLockRepository(), schedule)

	err := svc.Create(context.Background(), newBookingRequest(time.Now().UTC().Add(-time.Hour)))

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestUpdate_RescheduleExcludesOwnBooking(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	current := &model.Booking{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		ContactID:       testContactID,
		ServiceTypeID:   testServiceTypeID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}

	updated := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			copy := *current
			return &copy, nil
		},
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			// Only the booking being moved occupies the target window.
			return []*model.Booking{current}, nil
		},
		updateScheduleFunc: func(ctx context.Context, updateID string, booking *model.Booking) error {
			updated = true
			return nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), &mockScheduleReader{})

	newStart := futureAt(10, 30) // overlaps only its own old slot
	result, err := svc.Update(context.Background(), id, &model.BookingUpdate{ScheduledAt: &newStart})

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, newStart, result.ScheduledAt)
}

func TestUpdate_RescheduleIntoForeignSlotConflicts(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	current := &model.Booking{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		ContactID:       testContactID,
		ServiceTypeID:   testServiceTypeID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}
	other := &model.Booking{
		ID:              primitive.NewObjectID().Hex(),
		WorkspaceID:     testWorkspaceID,
		ScheduledAt:     futureAt(12, 0),
		DurationMinutes: 60,
		Status:          model.StatusPending,
	}

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			copy := *current
			return &copy, nil
		},
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			return []*model.Booking{current, other}, nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), &mockScheduleReader{})

	newStart := futureAt(12, 30)
	_, err := svc.Update(context.Background(), id, &model.BookingUpdate{ScheduledAt: &newStart})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdate_NotesOnlySkipsLock(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	current := &model.Booking{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		ContactID:       testContactID,
		ServiceTypeID:   testServiceTypeID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			copy := *current
			return &copy, nil
		},
	}
	locks := newMockLockRepository()

	svc := newTestService(t, repo, locks, &mockScheduleReader{})

	notes := "bring paperwork"
	result, err := svc.Update(context.Background(), id, &model.BookingUpdate{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, notes, result.Notes)
	assert.Equal(t, 0, locks.acquireCount(), "a metadata-only update must not take the workspace lock")
}

func TestCancel_FlipsStatusWithoutConflictLogic(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	current := &model.Booking{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		ContactID:       testContactID,
		ServiceTypeID:   testServiceTypeID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}

	var statusWritten string
	overlapChecked := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			copy := *current
			return &copy, nil
		},
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			overlapChecked = true
			return nil, nil
		},
		updateStatusFunc: func(ctx context.Context, updateID string, status string) error {
			statusWritten = status
			return nil
		},
	}
	locks := newMockLockRepository()

	svc := newTestService(t, repo, locks, &mockScheduleReader{})

	result, err := svc.Cancel(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, statusWritten)
	assert.Equal(t, model.StatusCancelled, result.Status)
	assert.False(t, overlapChecked, "cancellation must not run conflict detection")
	assert.Equal(t, 0, locks.acquireCount())
}

func TestUpdateStatus_ReactivationRunsConflictCheck(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	cancelled := &model.Booking{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		ContactID:       testContactID,
		ServiceTypeID:   testServiceTypeID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusCancelled,
	}
	usurper := &model.Booking{
		ID:              primitive.NewObjectID().Hex(),
		WorkspaceID:     testWorkspaceID,
		ScheduledAt:     futureAt(10, 0),
		DurationMinutes: 60,
		Status:          model.StatusConfirmed,
	}

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			copy := *cancelled
			return &copy, nil
		},
		findActiveBetweenFunc: func(ctx context.Context, workspaceID string, earliest, latest time.Time) ([]*model.Booking, error) {
			return []*model.Booking{usurper}, nil
		},
	}

	svc := newTestService(t, repo, newMockLockRepository(), &mockScheduleReader{})

	_, err := svc.UpdateStatus(context.Background(), id, model.StatusConfirmed)

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "reviving into an occupied slot must conflict")
}
