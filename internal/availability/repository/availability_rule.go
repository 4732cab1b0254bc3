package repository

import (
	"context"
	"fmt"
	"time"

	"reservo/pkg/config"
	mongotx "reservo/pkg/db/mongo"
	"reservo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability_rules"
)

type AvailabilityRuleRepository interface {
	// ReplaceForWorkspace swaps the workspace's whole rule set in one
	// transaction. Readers never observe a partially written week.
	ReplaceForWorkspace(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error
	FindActiveByWorkspace(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error)
}

type mongoAvailabilityRuleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAvailabilityRuleRepository(cfg *config.Config) AvailabilityRuleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRuleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoAvailabilityRuleRepository) ReplaceForWorkspace(ctx context.Context, workspaceID string, rules []*model.AvailabilityRule) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.collection.DeleteMany(sessCtx, bson.M{"workspace_id": workspaceID}); err != nil {
			return fmt.Errorf("failed to clear availability rules: %w", err)
		}

		if len(rules) == 0 {
			return nil
		}

		docs := make([]any, 0, len(rules))
		for _, rule := range rules {
			rule.WorkspaceID = workspaceID
			rule.CreatedAt = now
			rule.UpdatedAt = now
			docs = append(docs, rule)
		}

		if _, err := r.collection.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert availability rules: %w", err)
		}
		return nil
	})
}

func (r *mongoAvailabilityRuleRepository) FindActiveByWorkspace(ctx context.Context, workspaceID string) ([]*model.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"workspace_id": workspaceID,
		"is_active":    true,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}

	return rules, nil
}
