package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"stable_id",
			"facility_id",
			"start_time",
			"end_time",
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

			"facility_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"horse_ids": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},

			// Pre-migration documents carry a singular horse_id instead of
			// horse_ids. New writes never set it.
			"horse_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"external_horse_count": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  200,
			},

			"contact_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"user_full_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"user_email": bson.M{
				"bsonType": "string",
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"admin_override": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
