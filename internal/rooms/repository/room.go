package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	roomserrors "ginhawa/internal/rooms/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Rooms"
)

type RoomRepository interface {
	Find(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error)
	Count(ctx context.Context, filter model.RoomFilter) (int64, error)
	FindByNumber(ctx context.Context, number int) (*model.Room, error)
	FindByType(ctx context.Context, roomType model.RoomType) ([]*model.Room, error)
	Stats(ctx context.Context) (*model.RoomStats, error)
	// UpdateStatus moves a room from one status to another. It fails with
	// ErrStatusChanged when the room is no longer in status from.
	UpdateStatus(ctx context.Context, number int, from, to model.RoomStatus) error
	Occupy(ctx context.Context, number int, from model.RoomStatus, bookingID string) error
	Release(ctx context.Context, number int, bookingID string) error
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoomRepository) Find(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query, err := BuildFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "number", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []*model.Room{}
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Count(ctx context.Context, filter model.RoomFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query, err := BuildFilter(filter)
	if err != nil {
		return 0, err
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *mongoRoomRepository) FindByNumber(ctx context.Context, number int) (*model.Room, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"number": number}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindByType(ctx context.Context, roomType model.RoomType) ([]*model.Room, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"type": roomType}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms by type: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := []*model.Room{}
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Stats(ctx context.Context) (*model.RoomStats, error) {
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
		return nil, fmt.Errorf("failed to aggregate room stats: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []StatusCount
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode room stats: %w", err)
	}
	return TallyStats(groups), nil
}

func (r *mongoRoomRepository) UpdateStatus(ctx context.Context, number int, from, to model.RoomStatus) error {
	return r.transition(ctx, number, from, bson.M{
		"$set": bson.M{"status": to, "updated_at": now()},
	})
}

func (r *mongoRoomRepository) Occupy(ctx context.Context, number int, from model.RoomStatus, bookingID string) error {
	return r.transition(ctx, number, from, bson.M{
		"$set": bson.M{
			"status":             model.RoomOccupied,
			"current_booking_id": bookingID,
			"updated_at":         now(),
		},
	})
}

// Release hands an occupied room to housekeeping after its guest leaves.
func (r *mongoRoomRepository) Release(ctx context.Context, number int, bookingID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"number": number, "current_booking_id": bookingID}
	update := bson.M{
		"$set":   bson.M{"status": model.RoomCleaning, "updated_at": now()},
		"$unset": bson.M{"current_booking_id": ""},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release room: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrStatusChanged
	}
	return nil
}

func (r *mongoRoomRepository) transition(ctx context.Context, number int, from model.RoomStatus, update bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"number": number, "status": from}, update)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return roomserrors.ErrStatusChanged
	}
	return nil
}

type StatusCount struct {
	Status model.RoomStatus `bson:"_id"`
	Count  int64            `bson:"count"`
}

func TallyStats(groups []StatusCount) *model.RoomStats {
	stats := &model.RoomStats{}
	for _, g := range groups {
		stats.Total += g.Count
		switch g.Status {
		case model.RoomAvailable:
			stats.Available = g.Count
		case model.RoomOccupied:
			stats.Occupied = g.Count
		case model.RoomCleaning:
			stats.Cleaning = g.Count
		case model.RoomMaintenance:
			stats.Maintenance = g.Count
		}
	}
	stats.OccupancyRate = model.OccupancyRate(stats.Occupied, stats.Total)
	return stats
}

var digitsRegex = regexp.MustCompile(`^\d+$`)

// BuildFilter turns a RoomFilter into a Mongo query. The number filter is
// a substring match on the decimal room number.
func BuildFilter(f model.RoomFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.NumberContains != "" {
		if !digitsRegex.MatchString(f.NumberContains) {
			return nil, roomserrors.ErrInvalidNumberFilter
		}
		filter["$expr"] = bson.M{
			"$regexMatch": bson.M{
				"input": bson.M{"$toString": "$number"},
				"regex": f.NumberContains,
			},
		}
	}
	return filter, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
