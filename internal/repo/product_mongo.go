package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository reads product records from a single collection,
// one document per storage slot.
type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

func (r *MongoProductRepository) FindOne(ctx context.Context, field Field, key string) (models.ProductRecord, error) {
	if !field.Valid() {
		return models.ProductRecord{}, ErrUnknownField
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.ProductRecord
	err := r.coll.FindOne(ctx, bson.M{string(field): key}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ProductRecord{}, ErrProductNotFound
	}
	if err != nil {
		return models.ProductRecord{}, errors.Wrapf(err, "find product by %s", field)
	}
	return p, nil
}

func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "find product lists")
	}
	defer cursor.Close(ctx)

	products := []models.ProductRecord{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode product lists")
	}
	return products, nil
}

// Upsert replaces the document keyed by pos. Documents written here never
// carry an _id so the server keeps the existing one on replace.
func (r *MongoProductRepository) Upsert(ctx context.Context, p models.ProductRecord) (bool, error) {
	if p.Pos == "" {
		return false, ErrMissingPos
	}
	p.ID = ""
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"pos": p.Pos}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return false, errors.Wrapf(err, "upsert product at %s", p.Pos)
	}
	return res.MatchedCount > 0, nil
}
