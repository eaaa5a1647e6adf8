package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"display_name",
			"role",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"display_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"role": bson.M{
				"enum": []string{"partner", "customer"},
			},

			// Absent status is treated as active by the matching engine.
			"status": bson.M{
				"enum": []string{"active", "suspended"},
			},

			"availability": bson.M{
				"enum": []string{"online", "offline"},
			},

			"skills": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
				"maximum":  5,
			},

			"completed_jobs": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"price_multiplier": bson.M{
				"bsonType":         []string{"double", "int", "long"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"device_tokens": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 8,
				},
			},
		},
	},
}
