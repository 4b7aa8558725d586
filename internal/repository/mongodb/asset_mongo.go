package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetapi/internal/model"
	"assetapi/internal/repository"
)

type assetRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Filename string             `bson:"filename"`
	Content  []byte             `bson:"content"`
}

// AssetMongo is a MongoDB implementation of repository.AssetRepository.
// One instance is bound to a single collection (sprites or audio).
type AssetMongo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewAssetMongo creates a repository over coll. Every call is bounded by timeout.
func NewAssetMongo(coll *mongo.Collection, timeout time.Duration) *AssetMongo {
	return &AssetMongo{coll: coll, timeout: timeout}
}

var _ repository.AssetRepository = (*AssetMongo)(nil)

// Create inserts filename and content as a new document.
func (r *AssetMongo) Create(ctx context.Context, a *model.Asset) (*model.Asset, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, assetRecord{Filename: a.Filename, Content: a.Content})
	if err != nil {
		return nil, classify(err)
	}
	out := *a
	out.ID = hexID(res.InsertedID)
	return &out, nil
}

// List returns metadata for every document; the content field is projected out.
func (r *AssetMongo) List(ctx context.Context) ([]model.Asset, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.D{{Key: "content", Value: 0}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	var recs []assetRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, classify(err)
	}

	items := make([]model.Asset, 0, len(recs))
	for _, rec := range recs {
		items = append(items, model.Asset{ID: rec.ID.Hex(), Filename: rec.Filename})
	}
	return items, nil
}

// Replace sets filename and content together on the document with the given ID.
func (r *AssetMongo) Replace(ctx context.Context, id string, a *model.Asset) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "filename", Value: a.Filename},
		{Key: "content", Value: a.Content},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the document with the given ID.
func (r *AssetMongo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return classify(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
