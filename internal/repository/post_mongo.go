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

// MongoPostRepository implements PostRepository using MongoDB.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates the post repository over the "posts"
// collection with a unique index on post_id.
func NewMongoPostRepository(m *Mongo) *MongoPostRepository {
	return &MongoPostRepository{coll: m.collection("posts", "post_id")}
}

// Create persists a new post.
func (r *MongoPostRepository) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("post %q: %w", p.PostID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create post %q: %w", p.PostID, err)
	}

	return p, nil
}

// ListByProfileID returns one page of a profile's posts plus the total count.
func (r *MongoPostRepository) ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Post, int64, error) {
	query := bson.M{"profile_id": profileID}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts for profile %q: %w", profileID, err)
	}

	findOpts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts for profile %q: %w", profileID, err)
	}
	defer cursor.Close(ctx)

	posts := make([]model.Post, 0, limit)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}

	return posts, total, nil
}

// Count returns the total number of stored posts.
func (r *MongoPostRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
