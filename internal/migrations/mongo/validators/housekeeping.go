package validators

import "go.mongodb.org/mongo-driver/bson"

var HousekeepingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reference", "room_number", "request_types", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"reference":     bson.M{"bsonType": "string", "pattern": "^HK-[A-Z0-9]+$"},
			"room_number":   bson.M{"bsonType": "string", "minLength": 1, "maxLength": 10},
			"request_types": bson.M{"bsonType": "array", "minItems": 1, "items": bson.M{"bsonType": "string"}},
			"notes":         bson.M{"bsonType": "string", "maxLength": 500},
			"status":        bson.M{"bsonType": "string", "enum": []string{"Pending", "In-Progress", "Completed"}},
			"assigned_to":   bson.M{"bsonType": "string"},
			"started_at":    bson.M{"bsonType": "date"},
			"completed_at":  bson.M{"bsonType": "date"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}
