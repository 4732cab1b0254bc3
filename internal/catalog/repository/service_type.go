package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "reservo/internal/catalog/errors"
	"reservo/pkg/config"
	"reservo/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Service_types"
)

type ServiceTypeRepository interface {
	Create(ctx context.Context, serviceType *model.ServiceType) error
	FindByID(ctx context.Context, id string) (*model.ServiceType, error)
	FindByWorkspace(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, error)
	CountByWorkspace(ctx context.Context, workspaceID string) (int64, error)
	Update(ctx context.Context, id string, serviceType *model.ServiceType) error
	// Deactivate is the delete operation. Bookings snapshot their duration,
	// so rows referencing a deactivated service stay valid.
	Deactivate(ctx context.Context, id string) error
}

type mongoServiceTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceTypeRepository(cfg *config.Config) ServiceTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceTypeRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoServiceTypeRepository) Create(ctx context.Context, serviceType *model.ServiceType) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	serviceType.CreatedAt = now
	serviceType.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, serviceType)
	if err != nil {
		return fmt.Errorf("failed to create service type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		serviceType.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceTypeRepository) FindByID(ctx context.Context, id string) (*model.ServiceType, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	var serviceType model.ServiceType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&serviceType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service type: %w", err)
	}

	return &serviceType, nil
}

func (r *mongoServiceTypeRepository) FindByWorkspace(ctx context.Context, workspaceID string, limit int, offset int64) ([]*model.ServiceType, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find service types: %w", err)
	}
	defer cursor.Close(ctx)

	var serviceTypes []*model.ServiceType
	if err = cursor.All(ctx, &serviceTypes); err != nil {
		return nil, fmt.Errorf("failed to decode service types: %w", err)
	}

	return serviceTypes, nil
}

func (r *mongoServiceTypeRepository) CountByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"workspace_id": workspaceID})
	if err != nil {
		return 0, fmt.Errorf("failed to count service types: %w", err)
	}
	return count, nil
}

func (r *mongoServiceTypeRepository) Update(ctx context.Context, id string, serviceType *model.ServiceType) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":             serviceType.Name,
			"description":      serviceType.Description,
			"duration_minutes": serviceType.DurationMinutes,
			"location":         serviceType.Location,
			"is_active":        serviceType.IsActive,
			"updated_at":       time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update service type: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}

	return nil
}

func (r *mongoServiceTypeRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"is_active":  false,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate service type: %w", err)
	}

	if result.MatchedCount == 0 {
		return catalogerrors.ErrNotFound
	}

	return nil
}
