package service

import (
	"context"
	"errors"

	catalogerrors "reservo/internal/catalog/errors"
	"reservo/internal/catalog/repository"
	"reservo/internal/catalog/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
	"reservo/pkg/sanitizer"
)

type ServiceTypeService interface {
	Create(ctx context.Context, workspaceID string, serviceType *model.ServiceType) error
	GetByID(ctx context.Context, workspaceID, id string) (*model.ServiceType, error)
	List(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, int64, error)
	Update(ctx context.Context, workspaceID, id string, updates *model.ServiceTypeUpdate) (*model.ServiceType, error)
	Deactivate(ctx context.Context, workspaceID, id string) error
}

type serviceTypeService struct {
	repo      repository.ServiceTypeRepository
	validator *validator.ServiceTypeValidator
	cfg       *config.Config
}

func NewServiceTypeService(
	repo repository.ServiceTypeRepository,
	serviceTypeValidator *validator.ServiceTypeValidator,
	cfg *config.Config,
) ServiceTypeService {
	return &serviceTypeService{
		repo:      repo,
		validator: serviceTypeValidator,
		cfg:       cfg,
	}
}

func (s *serviceTypeService) Create(ctx context.Context, workspaceID string, serviceType *model.ServiceType) error {
	if workspaceID == "" {
		return apperrors.InvalidInput("Workspace ID cannot be empty")
	}

	serviceType.WorkspaceID = workspaceID
	serviceType.IsActive = true
	s.sanitize(serviceType)

	if err := s.validate(serviceType); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, serviceType); err != nil {
		s.cfg.Log.Error("Failed to create service type",
			"workspace_id", workspaceID,
			"name", serviceType.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create service type", err)
	}

	s.cfg.Log.Info("Service type created",
		"id", serviceType.ID,
		"workspace_id", workspaceID,
		"duration_minutes", serviceType.DurationMinutes,
	)
	return nil
}

func (s *serviceTypeService) GetByID(ctx context.Context, workspaceID, id string) (*model.ServiceType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service type ID cannot be empty")
	}

	serviceType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service type", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service type ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service type", err)
	}

	// Workspace scoping: a service type from another workspace is invisible.
	if serviceType.WorkspaceID != workspaceID {
		return nil, apperrors.NotFoundWithID("Service type", id)
	}

	return serviceType, nil
}

func (s *serviceTypeService) List(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, int64, error) {
	if workspaceID == "" {
		return nil, 0, apperrors.InvalidInput("Workspace ID cannot be empty")
	}

	count, err := s.repo.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		s.cfg.Log.Error("Failed to count service types", "workspace_id", workspaceID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count service types", err)
	}

	serviceTypes, err := s.repo.FindByWorkspace(ctx, workspaceID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list service types", "workspace_id", workspaceID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve service types", err)
	}

	return serviceTypes, count, nil
}

// Update edits catalog fields. Existing bookings keep their snapshotted
// durations, so a duration change only affects future bookings and slots.
func (s *serviceTypeService) Update(ctx context.Context, workspaceID, id string, updates *model.ServiceTypeUpdate) (*model.ServiceType, error) {
	existing, err := s.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Service type update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service type", id)
		}
		s.cfg.Log.Error("Failed to update service type", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update service type", err)
	}

	s.cfg.Log.Info("Service type updated", "id", id, "workspace_id", workspaceID)
	return merged, nil
}

func (s *serviceTypeService) Deactivate(ctx context.Context, workspaceID, id string) error {
	if _, err := s.GetByID(ctx, workspaceID, id); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Service type", id)
		}
		s.cfg.Log.Error("Failed to deactivate service type", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate service type", err)
	}

	s.cfg.Log.Info("Service type deactivated", "id", id, "workspace_id", workspaceID)
	return nil
}

// --- Helpers ---

func (s *serviceTypeService) sanitize(st *model.ServiceType) {
	st.Name = sanitizer.NormalizeName(st.Name)
	st.Description = sanitizer.NormalizeNotes(st.Description)
	st.Location = sanitizer.TrimAndNormalize(st.Location)
}

func (s *serviceTypeService) mergeUpdates(existing *model.ServiceType, updates *model.ServiceTypeUpdate) *model.ServiceType {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.DurationMinutes != nil {
		merged.DurationMinutes = *updates.DurationMinutes
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}

	return &merged
}

func (s *serviceTypeService) validate(serviceType *model.ServiceType) error {
	if err := s.validator.Validate(serviceType); err != nil {
		s.cfg.Log.Warn("Service type validation failed", "error", err)
		return apperrors.Validation("Service type validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
