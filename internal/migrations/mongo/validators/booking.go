package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"service_id",
			"customer_id",
			"status",
			"scheduled_at",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"partner_id": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"enum": []string{
					"pending",
					"accepted",
					"in_progress",
					"completed",
					"cancelled",
				},
			},

			"scheduled_at": bson.M{
				"bsonType": "date",
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"payment_status": bson.M{
				"enum": []string{"unpaid", "paid", "refunded"},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
