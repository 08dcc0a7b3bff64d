package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	billingerrors "ginhawa/internal/billing/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Invoices"
)

type InvoiceRepository interface {
	// Create fails with ErrAlreadyRaised when the (source, source_id) pair
	// is already invoiced.
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id string) (*model.Invoice, error)
	Find(ctx context.Context, filter model.InvoiceFilter, limit int, offset int64) ([]*model.Invoice, error)
	Count(ctx context.Context, filter model.InvoiceFilter) (int64, error)
	MarkPaid(ctx context.Context, id, method string, paidAt time.Time) error
	// SumPaid totals paid invoices, only those paid at or after since when
	// since is not zero.
	SumPaid(ctx context.Context, since time.Time) (total int64, count int64, err error)
}

type mongoInvoiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoInvoiceRepository(cfg *config.Config) InvoiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInvoiceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoInvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	invoice.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, invoice)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s %s", billingerrors.ErrAlreadyRaised, invoice.Source, invoice.SourceID)
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		invoice.ID = oid.Hex()
	}
	return nil
}

func (r *mongoInvoiceRepository) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", billingerrors.ErrInvalidID, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var invoice model.Invoice
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&invoice); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, billingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return &invoice, nil
}

// Find returns invoices newest first. A limit of zero returns every match.
func (r *mongoInvoiceRepository) Find(ctx context.Context, filter model.InvoiceFilter, limit int, offset int64) ([]*model.Invoice, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, BuildFilter(filter, r.cfg.Location), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []*model.Invoice{}
	if err = cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

func (r *mongoInvoiceRepository) Count(ctx context.Context, filter model.InvoiceFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, BuildFilter(filter, r.cfg.Location))
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

func (r *mongoInvoiceRepository) MarkPaid(ctx context.Context, id, method string, paidAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", billingerrors.ErrInvalidID, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "payment_status": model.PaymentUnpaid},
		bson.M{"$set": bson.M{
			"payment_status": model.PaymentPaid,
			"payment_method": method,
			"paid_at":        paidAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return billingerrors.ErrStatusChanged
	}
	return nil
}

func (r *mongoInvoiceRepository) SumPaid(ctx context.Context, since time.Time) (int64, int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, RevenuePipeline(since))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Count, nil
}

func RevenuePipeline(since time.Time) mongo.Pipeline {
	match := bson.M{"payment_status": model.PaymentPaid}
	if !since.IsZero() {
		match["paid_at"] = bson.M{"$gte": since.UTC()}
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
			"count": bson.M{"$sum": 1},
		}}},
	}
}

// BuildFilter turns the inclusive From/To days into a created_at range
// measured from midnight in loc.
func BuildFilter(f model.InvoiceFilter, loc *time.Location) bson.M {
	if loc == nil {
		loc = time.UTC
	}
	filter := bson.M{}
	if f.PaymentStatus != "" {
		filter["payment_status"] = f.PaymentStatus
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}

	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = StartOfDay(f.From, loc)
	}
	if !f.To.IsZero() {
		created["$lt"] = StartOfDay(f.To.AddDays(1), loc)
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

func StartOfDay(d model.Date, loc *time.Location) time.Time {
	t := d.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).UTC()
}
