package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"assetapi/internal/model"
	"assetapi/internal/repository"
)

type scoreRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PlayerName string             `bson:"player_name"`
	Score      int64              `bson:"score"`
}

// ScoreMongo is a MongoDB implementation of repository.ScoreRepository.
type ScoreMongo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewScoreMongo creates a repository over coll. Every call is bounded by timeout.
func NewScoreMongo(coll *mongo.Collection, timeout time.Duration) *ScoreMongo {
	return &ScoreMongo{coll: coll, timeout: timeout}
}

var _ repository.ScoreRepository = (*ScoreMongo)(nil)

func (r *ScoreMongo) Create(ctx context.Context, s *model.PlayerScore) (*model.PlayerScore, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, scoreRecord{PlayerName: s.PlayerName, Score: s.Score})
	if err != nil {
		return nil, classify(err)
	}
	out := *s
	out.ID = hexID(res.InsertedID)
	return &out, nil
}

func (r *ScoreMongo) List(ctx context.Context) ([]model.PlayerScore, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, classify(err)
	}
	var recs []scoreRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, classify(err)
	}

	items := make([]model.PlayerScore, 0, len(recs))
	for _, rec := range recs {
		items = append(items, model.PlayerScore{
			ID:         rec.ID.Hex(),
			PlayerName: rec.PlayerName,
			Score:      rec.Score,
		})
	}
	return items, nil
}

func (r *ScoreMongo) Replace(ctx context.Context, id string, s *model.PlayerScore) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "player_name", Value: s.PlayerName},
		{Key: "score", Value: s.Score},
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

func (r *ScoreMongo) Delete(ctx context.Context, id string) error {
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
