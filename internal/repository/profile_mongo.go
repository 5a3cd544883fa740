package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pageinsights-api/internal/model"
)

// MongoProfileRepository implements ProfileRepository using MongoDB.
type MongoProfileRepository struct {
	coll *mongo.Collection
}

// NewMongoProfileRepository creates the profile repository over the
// "profiles" collection with a unique index on profile_id.
func NewMongoProfileRepository(m *Mongo) *MongoProfileRepository {
	return &MongoProfileRepository{coll: m.collection("profiles", "profile_id")}
}

// Create persists a new profile.
func (r *MongoProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("profile %q: %w", p.ProfileID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create profile %q: %w", p.ProfileID, err)
	}

	return r.GetByID(ctx, p.ProfileID)
}

// GetByID returns the profile with the given external id.
func (r *MongoProfileRepository) GetByID(ctx context.Context, profileID string) (*model.Profile, error) {
	var p model.Profile
	err := r.coll.FindOne(ctx, bson.M{"profile_id": profileID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("profile %q: %w", profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", profileID, err)
	}
	return &p, nil
}

// Exists reports whether a profile with the given external id exists.
func (r *MongoProfileRepository) Exists(ctx context.Context, profileID string) (bool, error) {
	limit := int64(1)
	count, err := r.coll.CountDocuments(ctx, bson.M{"profile_id": profileID},
		&options.CountOptions{Limit: &limit})
	if err != nil {
		return false, fmt.Errorf("failed to check profile %q: %w", profileID, err)
	}
	return count > 0, nil
}

// buildSearchQuery translates the filter set into a MongoDB query.
// Follower bounds are inclusive, industry is an exact match, and name is
// a case-insensitive substring match; absent filters impose no constraint.
func buildSearchQuery(f model.SearchFilters) bson.M {
	query := bson.M{}

	if f.MinFollowers != nil || f.MaxFollowers != nil {
		followers := bson.M{}
		if f.MinFollowers != nil {
			followers["$gte"] = *f.MinFollowers
		}
		if f.MaxFollowers != nil {
			followers["$lte"] = *f.MaxFollowers
		}
		query["followers_count"] = followers
	}

	if f.Industry != "" {
		query["industry"] = f.Industry
	}

	if f.Name != "" {
		query["name"] = bson.M{
			"$regex": primitive.Regex{Pattern: regexEscape(f.Name), Options: "i"},
		}
	}

	return query
}

// regexEscape quotes regex metacharacters so the name filter stays a
// plain substring match.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, m := range meta {
			if r == m {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// Search returns one page of matching profiles plus the total match count.
func (r *MongoProfileRepository) Search(ctx context.Context, f model.SearchFilters) ([]model.Profile, int64, error) {
	query := buildSearchQuery(f)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	findOpts := options.Find().
		SetSort(sortNewestFirst).
		SetSkip(int64(f.Skip())).
		SetLimit(int64(f.Limit))

	cursor, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles := make([]model.Profile, 0, f.Limit)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, 0, fmt.Errorf("failed to decode profiles: %w", err)
	}

	return profiles, total, nil
}

// MarkSynced records completion of a sub-resource acquisition.
func (r *MongoProfileRepository) MarkSynced(ctx context.Context, profileID string, kind SyncKind, at time.Time) error {
	field := "posts_synced_at"
	if kind == SyncFollowers {
		field = "followers_synced_at"
	}

	update := bson.M{"$set": bson.M{field: at, "updated_at": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"profile_id": profileID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark %s synced for profile %q: %w", kind, profileID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("profile %q: %w", profileID, ErrNotFound)
	}
	return nil
}

// Count returns the total number of stored profiles.
func (r *MongoProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
