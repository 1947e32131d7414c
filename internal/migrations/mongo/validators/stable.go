package validators

import "go.mongodb.org/mongo-driver/bson"

var StableValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"cities",
			"labels",
			"owner_phone",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"cities": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 50,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"labels": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"owner_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"members": bson.M{
				"bsonType": "array",
				"maxItems": 200,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "phone", "role"},
					"properties": bson.M{
						"name": bson.M{
							"bsonType":  "string",
							"minLength": 2,
							"maxLength": 100,
						},
						"phone": bson.M{
							"bsonType": "string",
							"pattern":  `^\+[1-9]\d{1,14}$`,
						},
						"role": bson.M{
							"bsonType": "string",
							"enum": []string{
								"owner",
								"admin",
								"member",
							},
						},
						"joined_at": bson.M{
							"bsonType": "date",
						},
					},
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
