package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pageinsights-api/internal/model"
)

// MongoFollowerRepository implements FollowerRepository using MongoDB.
type MongoFollowerRepository struct {
	coll *mongo.Collection
}

// NewMongoFollowerRepository creates the follower repository over the
// "followers" collection with a unique index on user_id.
func NewMongoFollowerRepository(m *Mongo) *MongoFollowerRepository {
	return &MongoFollowerRepository{coll: m.collection("followers", "user_id")}
}

// Create persists a new follower.
func (r *MongoFollowerRepository) Create(ctx context.Context, f *model.Follower) (*model.Follower, error) {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("follower %q: %w", f.UserID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create follower %q: %w", f.UserID, err)
	}

	return f, nil
}

// ListByProfileID returns one page of a profile's followers plus the total count.
func (r *MongoFollowerRepository) ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Follower, int64, error) {
	query := bson.M{"profile_id": profileID}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count followers for profile %q: %w", profileID, err)
	}

	findOpts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followers for profile %q: %w", profileID, err)
	}
	defer cursor.Close(ctx)

	followers := make([]model.Follower, 0, limit)
	if err := cursor.All(ctx, &followers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode followers: %w", err)
	}

	return followers, total, nil
}

// Count returns the total number of stored followers.
func (r *MongoFollowerRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
