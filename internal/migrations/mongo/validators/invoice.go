package validators

import "go.mongodb.org/mongo-driver/bson"

var InvoiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reference", "source", "source_id", "lines", "total", "payment_status", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "objectId"},
			"reference":      bson.M{"bsonType": "string", "pattern": "^INV-[A-Z0-9]+$"},
			"source":         bson.M{"bsonType": "string", "enum": []string{"booking", "order"}},
			"source_id":      bson.M{"bsonType": "string", "minLength": 1},
			"lines":          bson.M{"bsonType": "array", "minItems": 1},
			"total":          bson.M{"bsonType": "number", "minimum": 1},
			"payment_status": bson.M{"bsonType": "string", "enum": []string{"Unpaid", "Paid"}},
			"paid_at":        bson.M{"bsonType": "date"},
			"created_at":     bson.M{"bsonType": "date"},
		},
	},
}
