package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/validator"
	mongotx "reservo/pkg/db/mongo"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// inMemoryBookingStore is a thread-safe stand-in for the Mongo repository.
// ExecuteTransaction serializes commits the way the real transaction plus
// workspace lock do, so the race is decided by the same re-check-then-insert
// discipline the production writer uses.
type inMemoryBookingStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	bookings []*model.Booking
}

func (s *inMemoryBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *booking
	b.ID = primitive.NewObjectID().Hex()
	booking.ID = b.ID
	s.bookings = append(s.bookings, &b)
	return nil
}

func (s *inMemoryBookingStore) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, nil
}

func (s *inMemoryBookingStore) FindByWorkspace(ctx context.Context, workspaceID string, filter repository.ListFilter, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (s *inMemoryBookingStore) CountByWorkspace(ctx context.Context, workspaceID string, filter repository.ListFilter) (int64, error) {
	return 0, nil
}

func (s *inMemoryBookingStore) FindActiveBetween(ctx context.Context, workspaceID string, earliestStart, latestStart time.Time) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Booking
	for _, b := range s.bookings {
		if b.WorkspaceID != workspaceID || !b.IsActive() {
			continue
		}
		if b.ScheduledAt.After(earliestStart) && b.ScheduledAt.Before(latestStart) {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (s *inMemoryBookingStore) UpdateSchedule(ctx context.Context, id string, booking *model.Booking) error {
	return nil
}

func (s *inMemoryBookingStore) UpdateStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return nil
}

func (s *inMemoryBookingStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(nil)
}

func (s *inMemoryBookingStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.IsActive() {
			n++
		}
	}
	return n
}

func TestCreate_ConcurrentOverlappingRequests(t *testing.T) {
	const attempts = 8

	store := &inMemoryBookingStore{}
	locks := newMockLockRepository()
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(60), nil
		},
	}

	cfg := testConfig(t)
	svc := NewBookingService(store, locks, schedule, validator.NewBookingValidator(cfg.Log), cfg)

	start := futureAt(9, 0)

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// All requests fight for the same hour; offsets keep the
			// intervals mutually overlapping without being identical.
			booking := newBookingRequest(start.Add(time.Duration(n) * time.Minute))
			results <- svc.Create(context.Background(), booking)
		}(i)
	}

	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one request must win the slot")
	assert.Equal(t, attempts-1, conflicts, "every loser must see CONFLICT")
	assert.Equal(t, 1, store.activeCount(), "ledger must hold exactly one active booking")
}

func TestCreate_SequentialAfterCancelReclaimsSlot(t *testing.T) {
	store := &inMemoryBookingStore{}
	schedule := &mockScheduleReader{
		findServiceTypeFunc: func(ctx context.Context, id string) (*model.ServiceType, error) {
			return activeServiceType(60), nil
		},
	}

	cfg := testConfig(t)
	svc := NewBookingService(store, newMockLockRepository(), schedule, validator.NewBookingValidator(cfg.Log), cfg)

	start := futureAt(14, 0)

	first := newBookingRequest(start)
	require.NoError(t, svc.Create(context.Background(), first))

	second := newBookingRequest(start)
	err := svc.Create(context.Background(), second)
	require.Error(t, err)
	require.True(t, apperrors.IsConflict(err))

	_, err = svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	third := newBookingRequest(start)
	assert.NoError(t, svc.Create(context.Background(), third), "a cancelled booking frees its slot")
}
