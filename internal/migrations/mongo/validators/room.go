package validators

import "go.mongodb.org/mongo-driver/bson"

var roomTypes = []string{"Standard", "Deluxe", "Suite"}

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"number", "type", "price", "status"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":                bson.M{"bsonType": "objectId"},
			"number":             bson.M{"bsonType": "number", "minimum": 1, "maximum": 9999},
			"type":               bson.M{"bsonType": "string", "enum": roomTypes},
			"price":              bson.M{"bsonType": "number", "minimum": 1},
			"status":             bson.M{"bsonType": "string", "enum": []string{"Available", "Occupied", "Cleaning", "Maintenance"}},
			"current_booking_id": bson.M{"bsonType": "string"},
			"created_at":         bson.M{"bsonType": "date"},
			"updated_at":         bson.M{"bsonType": "date"},
		},
	},
}
