package validators

import "go.mongodb.org/mongo-driver/bson"

var ReminderTaskValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"guest_email",
			"check_in",
			"fire_at",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_id": bson.M{
				"bsonType": "string",
			},

			"guest_email": bson.M{
				"bsonType": "string",
			},

			"guest_name": bson.M{
				"bsonType": "string",
			},

			"listing_title": bson.M{
				"bsonType": "string",
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"total_price": bson.M{
				"bsonType": "long",
			},

			"fire_at": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"sent",
					"failed",
				},
			},

			"last_error": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"sent_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
