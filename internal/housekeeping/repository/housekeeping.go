package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	hkerrors "ginhawa/internal/housekeeping/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "HousekeepingRequests"
)

type HousekeepingRepository interface {
	Create(ctx context.Context, request *model.HousekeepingRequest) error
	FindByID(ctx context.Context, id string) (*model.HousekeepingRequest, error)
	Find(ctx context.Context, status model.HousekeepingStatus, limit int, offset int64) ([]*model.HousekeepingRequest, error)
	Count(ctx context.Context, status model.HousekeepingStatus) (int64, error)
	CountByStatus(ctx context.Context) (*model.HousekeepingCounts, error)
	Transition(ctx context.Context, id string, from, to model.HousekeepingStatus, set map[string]any) error
}

type mongoHousekeepingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHousekeepingRepository(cfg *config.Config) HousekeepingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHousekeepingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoHousekeepingRepository) Create(ctx context.Context, request *model.HousekeepingRequest) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	request.CreatedAt = now
	request.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create housekeeping request: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		request.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHousekeepingRepository) FindByID(ctx context.Context, id string) (*model.HousekeepingRequest, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hkerrors.ErrInvalidID, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var request model.HousekeepingRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&request); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hkerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find housekeeping request: %w", err)
	}
	return &request, nil
}

func (r *mongoHousekeepingRepository) Find(ctx context.Context, status model.HousekeepingStatus, limit int, offset int64) ([]*model.HousekeepingRequest, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, statusFilter(status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find housekeeping requests: %w", err)
	}
	defer cursor.Close(ctx)

	requests := []*model.HousekeepingRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode housekeeping requests: %w", err)
	}
	return requests, nil
}

func (r *mongoHousekeepingRepository) Count(ctx context.Context, status model.HousekeepingStatus) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, statusFilter(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count housekeeping requests: %w", err)
	}
	return count, nil
}

func (r *mongoHousekeepingRepository) CountByStatus(ctx context.Context) (*model.HousekeepingCounts, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate housekeeping counts: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []StatusCount
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode housekeeping counts: %w", err)
	}
	return TallyCounts(groups), nil
}

func (r *mongoHousekeepingRepository) Transition(ctx context.Context, id string, from, to model.HousekeepingStatus, set map[string]any) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hkerrors.ErrInvalidID, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	fields := bson.M{
		"status":     to,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	for k, v := range set {
		fields[k] = v
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": from},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("failed to update housekeeping request: %w", err)
	}
	if result.MatchedCount == 0 {
		return hkerrors.ErrStatusChanged
	}
	return nil
}

type StatusCount struct {
	Status model.HousekeepingStatus `bson:"_id"`
	Count  int64                    `bson:"count"`
}

func TallyCounts(groups []StatusCount) *model.HousekeepingCounts {
	counts := &model.HousekeepingCounts{}
	for _, g := range groups {
		switch g.Status {
		case model.HousekeepingPending:
			counts.Pending = g.Count
		case model.HousekeepingInProgress:
			counts.InProgress = g.Count
		case model.HousekeepingCompleted:
			counts.Completed = g.Count
		}
	}
	return counts
}

func statusFilter(status model.HousekeepingStatus) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}
