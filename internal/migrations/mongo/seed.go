package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ginhawa/pkg/auth"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
)

const StaffEmailDomain = "hotel.com"

// SeedRooms builds the room inventory from the catalog, numbered from
// FirstRoomNumber in catalog order.
func SeedRooms(now time.Time) []model.Room {
	var rooms []model.Room
	number := model.FirstRoomNumber
	for _, info := range model.RoomCatalog {
		for i := 0; i < info.Count; i++ {
			rooms = append(rooms, model.Room{
				Number:    number,
				Type:      info.Type,
				Price:     info.Price,
				Status:    model.RoomAvailable,
				CreatedAt: now,
				UpdatedAt: now,
			})
			number++
		}
	}
	return rooms
}

// StaffEmail gives every department one demo login, e.g.
// frontoffice@hotel.com.
func StaffEmail(department string) string {
	local := strings.ToLower(strings.ReplaceAll(department, " ", ""))
	return local + "@" + StaffEmailDomain
}

// Seed inserts the demo rooms and one staff account per department. Existing
// documents are left untouched so reruns keep live room state.
func Seed(ctx context.Context, db *mongo.Database, password string, bcryptCost int, log *logger.Logger) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	rooms := db.Collection("Rooms")
	inserted := 0
	for _, room := range SeedRooms(now) {
		res, err := rooms.UpdateOne(ctx,
			bson.M{"number": room.Number},
			bson.M{"$setOnInsert": room},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed room %d: %w", room.Number, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	log.Info("Seeded rooms", "inserted", inserted)

	if password == "" {
		log.Warn("SEED_PASSWORD empty, skipping staff accounts")
		return nil
	}
	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	staff := db.Collection("Staff")
	inserted = 0
	for _, dept := range model.Departments {
		account := model.Account{
			Kind:         model.AccountStaff,
			Email:        StaffEmail(dept),
			Name:         dept,
			Department:   dept,
			PasswordHash: hash,
			CreatedAt:    now,
		}
		res, err := staff.UpdateOne(ctx,
			bson.M{"email": account.Email},
			bson.M{"$setOnInsert": account},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("failed to seed staff %s: %w", account.Email, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	log.Info("Seeded staff accounts", "inserted", inserted, "domain", StaffEmailDomain)
	return nil
}
