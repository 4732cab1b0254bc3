package service

import (
	"context"
	"testing"
	"time"

	"reservo/internal/availability/validator"
	"reservo/pkg/config"
	apperrors "reservo/pkg/errors"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkspaceID = "64b5f0a1c2d3e4f5a6b7c8d9"

type mockRuleRepository struct {
	replaceFunc func(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error
	findFunc    func(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error)
}

func (m *mockRuleRepository) ReplaceForWorkspace(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, workspaceID, rules)
	}
	return nil
}

func (m *mockRuleRepository) FindActiveByWorkspace(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, workspaceID)
	}
	return []*model.AvailabilityRule{}, nil
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

func newTestService(t *testing.T, repo *mockRuleRepository) AvailabilityService {
	t.Helper()
	cfg := testConfig(t)
	return NewAvailabilityService(repo, validator.NewAvailabilityValidator(cfg.Log), cfg)
}

func weekRules() []*model.AvailabilityRule {
	return []*model.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00", IsActive: true},
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "14:00", IsActive: true},
	}
}

func TestReplace_HappyPath(t *testing.T) {
	var replacedWith []*model.AvailabilityRule
	repo := &mockRuleRepository{
		replaceFunc: func(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error {
			replacedWith = rules
			return nil
		},
	}

	svc := newTestService(t, repo)

	rules, err := svc.Replace(context.Background(), testWorkspaceID, weekRules())

	require.NoError(t, err)
	assert.Len(t, replacedWith, 3)
	assert.Len(t, rules, 3)
}

func TestReplace_EmptySetIsLegal(t *testing.T) {
	called := false
	repo := &mockRuleRepository{
		replaceFunc: func(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error {
			called = true
			assert.Empty(t, rules)
			return nil
		},
	}

	svc := newTestService(t, repo)

	_, err := svc.Replace(context.Background(), testWorkspaceID, nil)

	require.NoError(t, err)
	assert.True(t, called, "clearing the schedule must still hit the store")
}

func TestReplace_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		rules []*model.AvailabilityRule
	}{
		{
			name:  "day out of range",
			rules: []*model.AvailabilityRule{{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00", IsActive: true}},
		},
		{
			name:  "malformed start time",
			rules: []*model.AvailabilityRule{{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00", IsActive: true}},
		},
		{
			name:  "end before start",
			rules: []*model.AvailabilityRule{{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", IsActive: true}},
		},
		{
			name:  "zero width window",
			rules: []*model.AvailabilityRule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:00", IsActive: true}},
		},
		{
			name: "one bad rule poisons the set",
			rules: append(weekRules(),
				&model.AvailabilityRule{DayOfWeek: 4, StartTime: "09:00", EndTime: "25:00", IsActive: true}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &mockRuleRepository{
				replaceFunc: func(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error {
					called = true
					return nil
				},
			}
			svc := newTestService(t, repo)

			_, err := svc.Replace(context.Background(), testWorkspaceID, tt.rules)

			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
			assert.False(t, called, "invalid rule sets must never reach the store")
		})
	}
}

func TestGetActive(t *testing.T) {
	repo := &mockRuleRepository{
		findFunc: func(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error) {
			return weekRules(), nil
		},
	}
	svc := newTestService(t, repo)

	rules, err := svc.GetActive(context.Background(), testWorkspaceID)

	require.NoError(t, err)
	assert.Len(t, rules, 3)
}

func TestGetActive_EmptyWorkspaceID(t *testing.T) {
	svc := newTestService(t, &mockRuleRepository{})

	_, err := svc.GetActive(context.Background(), "")

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
}
