package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountserrors "ginhawa/internal/accounts/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CustomersCollection = "Customers"
	StaffCollection     = "Staff"
)

// CollectionFor maps an account kind to the collection holding it.
func CollectionFor(kind model.AccountKind) string {
	if kind == model.AccountStaff {
		return StaffCollection
	}
	return CustomersCollection
}

type AccountRepository interface {
	// Create fails with ErrEmailTaken when the email is already used by an
	// account of the same kind.
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, kind model.AccountKind, email string) (*model.Account, error)
	TouchLogin(ctx context.Context, kind model.AccountKind, id string, at time.Time) error
	ListStaff(ctx context.Context, department string, limit int, offset int64) ([]*model.Account, error)
	CountStaff(ctx context.Context, department string) (int64, error)
}

type mongoAccountRepository struct {
	cfg       *config.Config
	customers *mongo.Collection
	staff     *mongo.Collection
}

func NewMongoAccountRepository(cfg *config.Config) AccountRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAccountRepository{
		cfg:       cfg,
		customers: db.Collection(CustomersCollection),
		staff:     db.Collection(StaffCollection),
	}
}

func (r *mongoAccountRepository) collection(kind model.AccountKind) *mongo.Collection {
	if kind == model.AccountStaff {
		return r.staff
	}
	return r.customers
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	account.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection(account.Kind).InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", accountserrors.ErrEmailTaken, account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAccountRepository) FindByEmail(ctx context.Context, kind model.AccountKind, email string) (*model.Account, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var account model.Account
	if err := r.collection(kind).FindOne(ctx, bson.M{"email": email}).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accountserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	account.Kind = kind
	return &account, nil
}

func (r *mongoAccountRepository) TouchLogin(ctx context.Context, kind model.AccountKind, id string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", accountserrors.ErrNotFound, id)
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err = r.collection(kind).UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"last_login_at": at}})
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) ListStaff(ctx context.Context, department string, limit int, offset int64) ([]*model.Account, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "department", Value: 1}, {Key: "email", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.staff.Find(ctx, staffFilter(department), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*model.Account{}
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return accounts, nil
}

func (r *mongoAccountRepository) CountStaff(ctx context.Context, department string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.staff.CountDocuments(ctx, staffFilter(department))
	if err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func staffFilter(department string) bson.M {
	if department == "" {
		return bson.M{}
	}
	return bson.M{"department": department}
}
