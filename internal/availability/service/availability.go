package service

import (
	"context"

	"reservo/internal/availability/repository"
	"reservo/internal/availability/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/model"
)

type AvailabilityService interface {
	Replace(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) ([]*model.AvailabilityRule, error)
	GetActive(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error)
}

type availabilityService struct {
	repo      repository.AvailabilityRuleRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRuleRepository,
	availabilityValidator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: availabilityValidator,
		cfg:       cfg,
	}
}

// Replace swaps the workspace's full weekly schedule. An empty rule set is
// legal and means the workspace takes no bookings.
func (s *availabilityService) Replace(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) ([]*model.AvailabilityRule, error) {
	if workspaceID == "" {
		return nil, apperrors.InvalidInput("Workspace ID cannot be empty")
	}

	if err := s.validator.ValidateRules(rules); err != nil {
		s.cfg.Log.Warn("Availability rules validation failed",
			"workspace_id", workspaceID,
			"error", err,
		)
		return nil, apperrors.Validation("Availability rules validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.ReplaceForWorkspace(ctx, workspaceID, rules); err != nil {
		s.cfg.Log.Error("Failed to replace availability rules",
			"workspace_id", workspaceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to replace availability rules", err)
	}

	s.cfg.Log.Info("Availability rules replaced",
		"workspace_id", workspaceID,
		"rule_count", len(rules),
	)
	return rules, nil
}

func (s *availabilityService) GetActive(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error) {
	if workspaceID == "" {
		return nil, apperrors.InvalidInput("Workspace ID cannot be empty")
	}

	rules, err := s.repo.FindActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability rules",
			"workspace_id", workspaceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve availability rules", err)
	}

	return rules, nil
}
