package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ginhawa/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LocksCollection = "Locks"

// ErrLocked is returned by Acquire when another request holds the lock.
var ErrLocked = errors.New("resource is locked")

// Locker hands out short advisory locks stored as documents keyed by name.
// The unique _id makes acquisition atomic; a TTL index on expires_at clears
// locks left behind by crashed processes.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), err error)
}

type mongoLocker struct {
	collection *mongo.Collection
	timeout    time.Duration
	onRelease  func(name string, err error)
}

func NewLocker(db *mongo.Database, timeout time.Duration, onRelease func(name string, err error)) Locker {
	return &mongoLocker{
		collection: db.Collection(LocksCollection),
		timeout:    timeout,
		onRelease:  onRelease,
	}
}

func (l *mongoLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	ctx, cancel := WithTimeout(ctx, l.timeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.Lock{
		ID:        name,
		Owner:     uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := l.collection.InsertOne(ctx, lock); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		// The TTL monitor runs once a minute, so an expired lock can linger.
		taken, takeErr := l.takeExpired(ctx, lock)
		if takeErr != nil {
			return nil, takeErr
		}
		if !taken {
			return nil, ErrLocked
		}
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		_, err := l.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "owner": lock.Owner})
		if l.onRelease != nil {
			l.onRelease(name, err)
		}
	}, nil
}

func (l *mongoLocker) takeExpired(ctx context.Context, lock model.Lock) (bool, error) {
	filter := bson.M{"_id": lock.ID, "expires_at": bson.M{"$lte": lock.CreatedAt}}
	update := bson.M{"$set": bson.M{
		"owner":      lock.Owner,
		"expires_at": lock.ExpiresAt,
		"created_at": lock.CreatedAt,
	}}
	res, err := l.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to take over expired lock %s: %w", lock.ID, err)
	}
	return res.ModifiedCount == 1, nil
}

// MemoryLocker is an in-process Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time)}
}

func (m *MemoryLocker) Acquire(_ context.Context, name string, ttl time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if exp, ok := m.locks[name]; ok && time.Now().Before(exp) {
		return nil, ErrLocked
	}
	m.locks[name] = time.Now().Add(ttl)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locks, name)
	}, nil
}
