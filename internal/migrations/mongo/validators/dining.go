package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reference", "category", "items", "table_or_room_number", "total_price", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":       bson.M{"bsonType": "objectId"},
			"reference": bson.M{"bsonType": "string", "pattern": "^ORD-[A-Z0-9]+$"},
			"category":  bson.M{"bsonType": "string", "enum": []string{"Food", "Drink"}},
			"items": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 50,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "price", "quantity"},
					"properties": bson.M{
						"name":     bson.M{"bsonType": "string"},
						"price":    bson.M{"bsonType": "number", "minimum": 0},
						"quantity": bson.M{"bsonType": "number", "minimum": 1, "maximum": 99},
					},
				},
			},
			"table_or_room_number": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 20},
			"total_price":          bson.M{"bsonType": "number", "minimum": 0},
			"status":               bson.M{"bsonType": "string", "enum": []string{"Pending", "Preparing", "Served", "Cancelled"}},
			"served_at":            bson.M{"bsonType": "date"},
			"created_at":           bson.M{"bsonType": "date"},
		},
	},
}

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reference", "type", "date", "time", "seating", "guests", "customer_email", "status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "objectId"},
			"reference":      bson.M{"bsonType": "string", "pattern": "^AG-[A-Z0-9]+$"},
			"type":           bson.M{"bsonType": "string", "enum": []string{"restaurant"}},
			"date":           bson.M{"bsonType": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"time":           bson.M{"bsonType": "string", "pattern": `^\d{2}:\d{2}$`},
			"seating":        bson.M{"bsonType": "string"},
			"guests":         bson.M{"bsonType": "number", "minimum": 1, "maximum": 20},
			"customer_email": bson.M{"bsonType": "string", "maxLength": 254},
			"status":         bson.M{"bsonType": "string", "enum": []string{"Confirmed", "Seated", "Completed", "Cancelled"}},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}
