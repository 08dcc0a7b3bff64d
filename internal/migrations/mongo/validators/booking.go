package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reference",
			"type",
			"check_in",
			"check_out",
			"guests",
			"room_type",
			"total_price",
			"customer_email",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"reference": bson.M{
				"bsonType": "string",
				"pattern":  "^(GIN|BOOK)-[A-Z0-9]+$",
			},

			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"hotel"},
			},

			// YYYY-MM-DD, compared as strings in range queries.
			"check_in": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"check_out": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"guests": bson.M{
				"bsonType": "number",
				"minimum":  1,
				"maximum":  10,
			},

			"room_type": bson.M{
				"bsonType": "string",
				"enum":     roomTypes,
			},

			"room_number": bson.M{
				"bsonType": "number",
			},

			"total_price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"customer_email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Confirmed",
					"Checked-in",
					"Checked-out",
					"Cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
