package validators

import "go.mongodb.org/mongo-driver/bson"

var CustomerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "password_hash", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"kind":          bson.M{"bsonType": "string", "enum": []string{"customer"}},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"phone":         bson.M{"bsonType": "string", "pattern": `^\+[1-9]\d{1,14}$`},
			"password_hash": bson.M{"bsonType": "string", "minLength": 59},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}

var StaffValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "department", "password_hash", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":   bson.M{"bsonType": "objectId"},
			"kind":  bson.M{"bsonType": "string", "enum": []string{"staff"}},
			"email": bson.M{"bsonType": "string", "maxLength": 254},
			"department": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Manager", "Front Office", "Kitchen", "Bar",
					"Housekeeping", "Billing", "Customer Guest", "Room Facilities",
				},
			},
			"password_hash": bson.M{"bsonType": "string", "minLength": 59},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}
