package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	mongoMigration "ginhawa/internal/migrations/mongo"
	"ginhawa/pkg/config"
	"ginhawa/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabaseName = "ginhawa_integration"
	ConnectionTimeout   = 10 * time.Second
	SeedPassword        = "ginhawa-test"
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper connects to TEST_MONGO_URI and skips the test when it is
// unset. Transactions need a replica set, so point it at one.
func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	mongoURI := os.Getenv("TEST_MONGO_URI")
	if mongoURI == "" {
		t.Skip("TEST_MONGO_URI not set, skipping integration test")
	}
	dbName := getEnv("TEST_DB_NAME", DefaultDatabaseName)

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	t.Log("Connected to MongoDB successfully")
	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

// Close drops the test database and disconnects.
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := m.Database.Drop(ctx); err != nil {
		t.Logf("warning: failed to drop %s: %v", m.DBName, err)
	}
	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// Migrate drops every collection, then recreates and seeds them.
func (m *MongoHelper) Migrate(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := m.Database.Drop(ctx); err != nil {
		t.Fatalf("failed to drop %s: %v", m.DBName, err)
	}
	log := logger.Discard()
	if err := mongoMigration.RunMigration(ctx, m.Database, log); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	if err := mongoMigration.Seed(ctx, m.Database, SeedPassword, 4, log); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

// CountDocuments returns the number of documents in a collection
func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// Config returns a validated service config bound to the helper's client.
func (m *MongoHelper) Config(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.FromEnv()
	cfg.MongoDatabaseName = m.DBName
	cfg.JWTSecret = ""
	cfg.KafkaEnabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	cfg.Log = logger.Discard()
	cfg.Client.Mongo = m.Client
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
