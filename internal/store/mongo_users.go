package store

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUsers stores users in the "users" collection.
type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(usersCollection)}
}

func (s *MongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"verificationToken": token})
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUsers) UpdateByID(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Subscription != nil {
		set["subscription"] = *upd.Subscription
	}
	if upd.AvatarURL != nil {
		set["avatarURL"] = *upd.AvatarURL
	}
	if upd.Verify != nil {
		set["verify"] = *upd.Verify
	}
	if upd.VerificationToken != nil {
		set["verificationToken"] = *upd.VerificationToken
	}
	if upd.ClearVerificationToken {
		set["verificationToken"] = nil
	}
	if upd.Token != nil {
		set["token"] = *upd.Token
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}
