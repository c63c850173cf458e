package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/piresc/intranet-notify/internal/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDocument is a user as stored by the intranet web layer
type userDocument struct {
	ID          interface{} `bson:"_id"`
	models.User `bson:",inline"`
}

// MongoUserRepo reads users from the intranet document store
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a repository over the users collection
func NewMongoUserRepo(coll *mongo.Collection) *MongoUserRepo {
	return &MongoUserRepo{coll: coll}
}

// FindUserByID looks the user up by _id, as an ObjectID when id is a valid hex id
func (r *MongoUserRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var key interface{} = id
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		key = oid
	}

	opts := options.FindOne().SetProjection(bson.M{
		"name":            1,
		"email":           1,
		"role":            1,
		"branch":          1,
		"employment_type": 1,
	})

	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": key}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user := doc.User
	switch v := doc.ID.(type) {
	case primitive.ObjectID:
		user.ID = v.Hex()
	case nil:
		user.ID = id
	default:
		user.ID = fmt.Sprint(v)
	}
	return &user, nil
}

// Ping checks the document store is reachable
func (r *MongoUserRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
