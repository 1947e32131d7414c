package validators

import "go.mongodb.org/mongo-driver/bson"

var timeBlockSchema = bson.M{
	"bsonType": "object",
	"required": []string{"from", "to"},
	"properties": bson.M{
		"from": bson.M{
			"bsonType": "string",
			"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
		},
		"to": bson.M{
			"bsonType": "string",
			"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
		},
	},
}

var FacilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"stable_id",
			"name",
			"capacity",
			"max_horses_per_reservation",
			"slot_granularity_min",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"stable_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"max_horses_per_reservation": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"slot_granularity_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  240,
			},

			"availability_schedule": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items":    timeBlockSchema,
				},
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
