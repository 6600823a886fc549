package repository

import (
	"context"
	"testing"

	"carsurvey/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoResponseRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append assigns the object id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoResponseRepo(mt.DB)

		r := sample("s1", 30, model.OutcomeCompleted)
		r.ID = "ignored"
		require.NoError(mt, repo.Append(context.Background(), r))

		_, err := primitive.ObjectIDFromHex(r.ID)
		assert.NoError(mt, err)
	})

	mt.Run("append surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))
		repo := NewMongoResponseRepo(mt.DB)

		assert.Error(mt, repo.Append(context.Background(), sample("s1", 30, model.OutcomeCompleted)))
	})

	mt.Run("list decodes in cursor order", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".responses"
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: first},
					{Key: "sessionId", Value: "s1"},
					{Key: "age", Value: 30},
					{Key: "hasLicense", Value: "Yes"},
					{Key: "carNumber", Value: 2},
					{Key: "make", Value: "BMW, Ford"},
					{Key: "outcome", Value: "completed"},
				},
				bson.D{
					{Key: "_id", Value: second},
					{Key: "sessionId", Value: "s2"},
					{Key: "age", Value: nil},
					{Key: "outcome", Value: "under_age"},
				},
			),
		)
		repo := NewMongoResponseRepo(mt.DB)

		got, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, first.Hex(), got[0].ID)
		assert.Equal(mt, 30, *got[0].Age)
		assert.Equal(mt, model.Yes, got[0].HasLicense)
		assert.Equal(mt, 2, got[0].CarCount)
		assert.Equal(mt, second.Hex(), got[1].ID)
		assert.Nil(mt, got[1].Age)
		assert.Equal(mt, model.OutcomeUnderAge, got[1].Outcome)
	})

	mt.Run("list of an empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".responses", mtest.FirstBatch))
		repo := NewMongoResponseRepo(mt.DB)

		got, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})
}
