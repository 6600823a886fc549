package repository

import (
	"carsurvey/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResponseRepo is the append-only response collection
type ResponseRepo interface {
	Append(ctx context.Context, response *model.Response) error
	List(ctx context.Context) ([]*model.Response, error)
}

type mongoResponseRepo struct {
	collection *mongo.Collection
}

// NewMongoResponseRepo creates a response repository backed by MongoDB
func NewMongoResponseRepo(db *mongo.Database) ResponseRepo {
	return &mongoResponseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *mongoResponseRepo) Append(ctx context.Context, response *model.Response) error {
	doc := response.Clone()
	doc.ID = ""

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		response.ID = oid.Hex()
	}
	return nil
}

// List returns responses in insertion order. ObjectIDs generated by the
// driver increase monotonically, so sorting on _id keeps that order.
func (r *mongoResponseRepo) List(ctx context.Context) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}
