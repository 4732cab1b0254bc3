package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "reservo/internal/catalog/errors"
	"reservo/internal/catalog/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	testWorkspaceID  = "64b5f0a1c2d3e4f5a6b7c8d9"
	otherWorkspaceID = "64b5f0a1c2d3e4f5a6b7c8d0"
)

type mockServiceTypeRepository struct {
	createFunc     func(ctx context.Context, serviceType *model.ServiceType) error
	findByIDFunc   func(ctx context.Context, id string) (*model.ServiceType, error)
	findFunc       func(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, error)
	countFunc      func(ctx context.Context, workspaceID string) (int64, error)
	updateFunc     func(ctx context.Context, id string, serviceType *model.ServiceType) error
	deactivateFunc func(ctx context.Context, id string) error
}

func (m *mockServiceTypeRepository) Create(ctx context.Context, serviceType *model.ServiceType) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, serviceType)
	}
	serviceType.ID = primitive.NewObjectID().Hex()
	return nil
}

func (m *mockServiceTypeRepository) FindByID(ctx context.Context, id string) (*model.ServiceType, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockServiceTypeRepository) FindByWorkspace(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, workspaceID, limit, offset)
	}
	return []*model.ServiceType{}, nil
}

func (m *mockServiceTypeRepository) CountByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, workspaceID)
	}
	return 0, nil
}

func (m *mockServiceTypeRepository) Update(ctx context.Context, id string, serviceType *model.ServiceType) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, serviceType)
	}
	return nil
}

func (m *mockServiceTypeRepository) Deactivate(ctx context.Context, id string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(t *testing.T, repo *mockServiceTypeRepository) ServiceTypeService {
	t.Helper()
	cfg := testConfig(t)
	return NewServiceTypeService(repo, validator.NewServiceTypeValidator(cfg.Log), cfg)
}

func storedServiceType(id string) *model.ServiceType {
	return &model.ServiceType{
		ID:              id,
		WorkspaceID:     testWorkspaceID,
		Name:            "Initial consultation",
		DurationMinutes: 45,
		IsActive:        true,
	}
}

func TestCreate_SetsWorkspaceAndActivates(t *testing.T) {
	var created *model.ServiceType
	repo := &mockServiceTypeRepository{
		createFunc: func(ctx context.Context, serviceType *model.ServiceType) error {
			serviceType.ID = primitive.NewObjectID().Hex()
			created = serviceType
			return nil
		},
	}

	svc := newTestService(t, repo)

	err := svc.Create(context.Background(), testWorkspaceID, &model.ServiceType{
		Name:            "  Follow-up   visit ",
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, testWorkspaceID, created.WorkspaceID)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Follow-up visit", created.Name, "name is normalized before storage")
}

func TestCreate_DurationOutOfRange(t *testing.T) {
	svc := newTestService(t, &mockServiceTypeRepository{})

	for _, duration := range []int{0, 4, 481} {
		err := svc.Create(context.Background(), testWorkspaceID, &model.ServiceType{
			Name:            "Massage",
			DurationMinutes: duration,
		})
		require.Error(t, err, "duration %d", duration)
		appErr := apperrors.AsAppError(err)
		assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	}
}

func TestGetByID_WorkspaceScoping(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	repo := &mockServiceTypeRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.ServiceType, error) {
			return storedServiceType(id), nil
		},
	}

	svc := newTestService(t, repo)

	got, err := svc.GetByID(context.Background(), testWorkspaceID, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	// The same document is invisible from a different workspace.
	_, err = svc.GetByID(context.Background(), otherWorkspaceID, id)
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	var written *model.ServiceType
	repo := &mockServiceTypeRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.ServiceType, error) {
			return storedServiceType(id), nil
		},
		updateFunc: func(ctx context.Context, updateID string, serviceType *model.ServiceType) error {
			written = serviceType
			return nil
		},
	}

	svc := newTestService(t, repo)

	newDuration := 90
	got, err := svc.Update(context.Background(), testWorkspaceID, id, &model.ServiceTypeUpdate{
		DurationMinutes: &newDuration,
	})

	require.NoError(t, err)
	require.NotNil(t, written)
	assert.Equal(t, 90, written.DurationMinutes)
	assert.Equal(t, "Initial consultation", written.Name, "untouched fields survive the merge")
	assert.Equal(t, 90, got.DurationMinutes)
}

func TestDeactivate(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	deactivated := false
	repo := &mockServiceTypeRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.ServiceType, error) {
			return storedServiceType(id), nil
		},
		deactivateFunc: func(ctx context.Context, deactivateID string) error {
			assert.Equal(t, id, deactivateID)
			deactivated = true
			return nil
		},
	}

	svc := newTestService(t, repo)

	require.NoError(t, svc.Deactivate(context.Background(), testWorkspaceID, id))
	assert.True(t, deactivated)
}

func TestDeactivate_UnknownID(t *testing.T) {
	svc := newTestService(t, &mockServiceTypeRepository{})

	err := svc.Deactivate(context.Background(), testWorkspaceID, primitive.NewObjectID().Hex())

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
