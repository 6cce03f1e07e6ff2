package repo

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	oid := primitive.NewObjectID()
	ns := "shelf.productlists"

	mt.Run("find by pos", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "pos", Value: "A02-D01"},
			{Key: "code", Value: "X1"},
			{Key: "product_list", Value: "Paracetamol"},
			{Key: "quantity", Value: "10"},
		}))
		r := NewMongoProductRepository(mt.Coll)

		got, err := r.FindOne(context.Background(), FieldPos, "A02-D01")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), got.ID)
		assert.Equal(mt, "Paracetamol", got.ProductList)
		require.NotNil(mt, got.Quantity)
		assert.Equal(mt, "10", *got.Quantity)
	})

	mt.Run("absent quantity stays nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "code", Value: "X1"},
		}))
		r := NewMongoProductRepository(mt.Coll)

		got, err := r.FindOne(context.Background(), FieldCode, "X1")
		require.NoError(mt, err)
		assert.Nil(mt, got.Quantity)
		assert.Empty(mt, got.Pos)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		r := NewMongoProductRepository(mt.Coll)

		_, err := r.FindOne(context.Background(), FieldPos, "Z99-Z99")
		assert.ErrorIs(mt, err, ErrProductNotFound)
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11600, Message: "interrupted at shutdown",
		}))
		r := NewMongoProductRepository(mt.Coll)

		_, err := r.FindOne(context.Background(), FieldPos, "A02-D01")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrProductNotFound)
	})

	mt.Run("get all", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "pos", Value: "A02-D01"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "pos", Value: "A02-D02"}},
		))
		r := NewMongoProductRepository(mt.Coll)

		got, err := r.GetAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "A02-D02", got[1].Pos)
	})

	mt.Run("upsert replaces existing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})
		r := NewMongoProductRepository(mt.Coll)

		updated, err := r.Upsert(context.Background(), models.ProductRecord{Pos: "A02-D01", Code: "X2"})
		require.NoError(mt, err)
		assert.True(mt, updated)
	})

	mt.Run("upsert inserts new", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "n", Value: 1},
			{Key: "nModified", Value: 0},
			{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: oid}}}},
		})
		r := NewMongoProductRepository(mt.Coll)

		updated, err := r.Upsert(context.Background(), models.ProductRecord{Pos: "A02-D09"})
		require.NoError(mt, err)
		assert.False(mt, updated)
	})
}
