package validators

import "go.mongodb.org/mongo-driver/bson"

var ActivityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"stable_id",
			"title",
			"start_time",
			"end_time",
			"points",
			"status",
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

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"assignee_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"points": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  100,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"open",
					"done",
					"cancelled",
				},
			},

			"completed_at": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"completed_by": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
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

var WorkloadEntryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"stable_id",
			"member_phone",
			"points",
			"source",
			"source_id",
			"recorded_at",
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

			"member_phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{1,14}$`,
			},

			"member_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"points": bson.M{
				"bsonType": "int",
				"minimum":  -100,
				"maximum":  100,
			},

			"source": bson.M{
				"bsonType": "string",
				"enum": []string{
					"activity",
					"reservation",
				},
			},

			"source_id": bson.M{
				"bsonType": "string",
			},

			"recorded_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
