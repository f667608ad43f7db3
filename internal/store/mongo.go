package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	contactsCollection = "contacts"
)

// EnsureMongoIndexes configures indexes for the users collection.
// The unique email index is what ultimately rejects a concurrent duplicate signup.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verificationToken", Value: 1}},
			Options: options.Index().SetName("idx_users_verification_token").SetSparse(true),
		},
	}

	col := db.Collection(usersCollection)
	for _, m := range models {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
