package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "ginhawa/internal/bookings/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByReference(ctx context.Context, reference string) (*model.Booking, error)
	Find(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, filter model.BookingFilter) (int64, error)
	// Transition applies a compare-and-set status change. It returns
	// ErrStatusChanged when the booking is no longer in status t.From.
	Transition(ctx context.Context, id string, t model.BookingTransition) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoBookingRepository) FindByReference(ctx context.Context, reference string) (*model.Booking, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

func (r *mongoBookingRepository) findOne(ctx context.Context, filter bson.M) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Find(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "created_at", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, BuildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter model.BookingFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, BuildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) Transition(ctx context.Context, id string, t model.BookingTransition) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"status":     t.To,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	for k, v := range t.Set {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": t.From},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrStatusChanged
	}
	return nil
}

// BuildFilter translates a BookingFilter into a Mongo query. Dates are
// stored as YYYY-MM-DD strings, so range operators compare them in day order.
func BuildFilter(f model.BookingFilter) bson.M {
	filter := bson.M{}

	status := bson.M{}
	if len(f.Statuses) > 0 {
		status["$in"] = f.Statuses
	}
	if f.ExcludeStatus != "" {
		status["$ne"] = f.ExcludeStatus
	}
	if len(status) > 0 {
		filter["status"] = status
	}

	if f.CustomerEmail != "" {
		filter["customer_email"] = f.CustomerEmail
	}
	if f.RoomType != "" {
		filter["room_type"] = f.RoomType
	}
	if f.RoomNumber != nil {
		filter["room_number"] = *f.RoomNumber
	} else if f.AssignedOnly {
		filter["room_number"] = bson.M{"$exists": true}
	}

	checkIn := bson.M{}
	if !f.CheckIn.IsZero() {
		checkIn["$eq"] = f.CheckIn
	}
	if !f.CheckInAfter.IsZero() {
		checkIn["$gt"] = f.CheckInAfter
	}
	if !f.OverlapOut.IsZero() {
		checkIn["$lt"] = f.OverlapOut
	}
	if len(checkIn) > 0 {
		filter["check_in"] = checkIn
	}

	checkOut := bson.M{}
	if !f.CheckOut.IsZero() {
		checkOut["$eq"] = f.CheckOut
	}
	if !f.OverlapIn.IsZero() {
		checkOut["$gt"] = f.OverlapIn
	}
	if len(checkOut) > 0 {
		filter["check_out"] = checkOut
	}

	return filter
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
