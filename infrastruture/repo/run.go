package repo

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepo stores finished maze runs. Run IDs are ULIDs, so sorting on _id is sorting by completion time.
type RunRepo struct {
	collection *mongo.Collection
}

var _ i.RunRepo = &RunRepo{}

// NewRunRepo creates a RunRepo on the given database and collection.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	return &RunRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes indexes runs by player, newest first.
func (r *RunRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "_id", Value: -1}},
	})
	return err
}

// Save inserts a run.
func (r *RunRepo) Save(ctx context.Context, run *domain.Run) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByPlayer returns the player's most recent runs, newest first.
func (r *RunRepo) ByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*domain.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"playerId": playerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}

	runs := []*domain.Run{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return runs, nil
}
