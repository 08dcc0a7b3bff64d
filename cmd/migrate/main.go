package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	mongoMigration "ginhawa/internal/migrations/mongo"
	"ginhawa/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", false, "insert the room inventory and demo staff accounts")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()
	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job", "seed", *seed)
	defer cfg.GracefulShutdown()

	migrateMongo(ctx, cfg)
	if *seed {
		seedMongo(ctx, cfg)
	}
	fmt.Println("Migration completed successfully.")
}

func migrateMongo(ctx context.Context, cfg *config.Config) {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.RunMigration(ctx, db, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
}

func seedMongo(ctx context.Context, cfg *config.Config) {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	if err := mongoMigration.Seed(ctx, db, cfg.SeedPassword, cfg.BcryptCost, cfg.Log); err != nil {
		cfg.Log.Fatal("Seeding failed", "error", err)
	}
}
