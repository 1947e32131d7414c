package validators

import "go.mongodb.org/mongo-driver/bson"

var HorseValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"stable_id",
			"name",
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

			"breed": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"date_of_birth": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"tack_labels": bson.M{
				"bsonType": "array",
				"maxItems": 30,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"vaccinations": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "administered_at", "valid_until"},
					"properties": bson.M{
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 2,
							"maxLength": 100,
						},
						"administered_at": bson.M{
							"bsonType": "date",
						},
						"valid_until": bson.M{
							"bsonType": "date",
						},
					},
				},
			},

			"transports": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"departed_at", "destination"},
					"properties": bson.M{
						"departed_at": bson.M{
							"bsonType": "date",
						},
						"returned_at": bson.M{
							"bsonType": []string{"date", "null"},
						},
						"destination": bson.M{
							"bsonType":  "string",
							"minLength": 2,
							"maxLength": 200,
						},
						"notes": bson.M{
							"bsonType":  "string",
							"maxLength": 2000,
						},
					},
				},
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
