package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "reservo/internal/bookings/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Read-only access to the collections owned by the availability and catalog
// services. Slot generation and booking validation only ever read them.

// ScheduleReader resolves the data a slot computation needs: the workspace's
// availability rule for a weekday and the service type being booked.
type ScheduleReader interface {
	// FindActiveRule returns the active rule for the weekday, or nil when
	// the workspace has none. Ties resolve to the most recently updated rule.
	FindActiveRule(ctx context.Context, workspaceID string, dayOfWeek int) (*model.AvailabilityRule, error)
	FindServiceType(ctx context.Context, id string) (*model.ServiceType, error)
}

type mongoScheduleReader struct {
	cfg          *config.Config
	rules        *mongo.Collection
	serviceTypes *mongo.Collection
}

func NewScheduleReader(cfg *config.Config) ScheduleReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoScheduleReader{
		cfg:          cfg,
		rules:        db.Collection("Availability_rules"),
		serviceTypes: db.Collection("Service_types"),
	}
}

func (r *mongoScheduleReader) FindActiveRule(ctx context.Context, workspaceID string, dayOfWeek int) (*model.AvailabilityRule, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"workspace_id": workspaceID,
		"day_of_week":  dayOfWeek,
		"is_active":    true,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	var rule model.AvailabilityRule
	err := r.rules.FindOne(ctx, filter, opts).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find availability rule: %w", err)
	}

	return &rule, nil
}

func (r *mongoScheduleReader) FindServiceType(ctx context.Context, id string) (*model.ServiceType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrServiceTypeNotFound, id)
	}

	var serviceType model.ServiceType
	err = r.serviceTypes.FindOne(ctx, bson.M{"_id": objectID}).Decode(&serviceType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrServiceTypeNotFound
		}
		return nil, fmt.Errorf("failed to find service type: %w", err)
	}

	return &serviceType, nil
}
