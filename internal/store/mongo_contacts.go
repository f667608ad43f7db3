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

// MongoContacts stores contacts in the "contacts" collection.
// IDs are ObjectID hex strings, so sorting by _id gives insertion order.
type MongoContacts struct {
	col *mongo.Collection
}

func NewMongoContacts(db *mongo.Database) *MongoContacts {
	return &MongoContacts{col: db.Collection(contactsCollection)}
}

func (s *MongoContacts) List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	query := bson.M{}
	if filter.Favorite != nil {
		query["favorite"] = *filter.Favorite
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Skip()))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	contacts := []models.Contact{}
	for cur.Next(ctx) {
		var c models.Contact
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *MongoContacts) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	var c models.Contact
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoContacts) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	c := *contact
	c.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoContacts) UpdateByID(ctx context.Context, id string, upd models.ContactUpdate) (*models.Contact, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Favorite != nil {
		set["favorite"] = *upd.Favorite
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c models.Contact
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoContacts) DeleteByID(ctx context.Context, id string) (*models.Contact, error) {
	var c models.Contact
	if err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
