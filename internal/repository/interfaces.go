package repository

import (
	"context"
	"errors"
	"time"

	"pageinsights-api/internal/model"
)

var (
	// ErrNotFound indicates no document matched the lookup.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateID indicates a create violated the unique external-id
	// constraint. Callers on the normal retrieval path should never see
	// this under single-flight operation.
	ErrDuplicateID = errors.New("duplicate identifier")
)

// SyncKind identifies a sub-resource kind for acquisition markers.
type SyncKind string

const (
	SyncPosts     SyncKind = "posts"
	SyncFollowers SyncKind = "followers"
)

// ProfileRepository defines profile data access methods.
type ProfileRepository interface {
	// Create persists a new profile, stamping created_at/updated_at.
	Create(ctx context.Context, p *model.Profile) (*model.Profile, error)

	// GetByID returns the profile with the given external id, or ErrNotFound.
	GetByID(ctx context.Context, profileID string) (*model.Profile, error)

	// Exists reports whether a profile with the given external id exists.
	Exists(ctx context.Context, profileID string) (bool, error)

	// Search returns one page of profiles matching the filters plus the
	// total match count ignoring pagination, newest first.
	Search(ctx context.Context, f model.SearchFilters) ([]model.Profile, int64, error)

	// MarkSynced records that acquisition for a sub-resource kind completed.
	MarkSynced(ctx context.Context, profileID string, kind SyncKind, at time.Time) error

	// Count returns the total number of stored profiles.
	Count(ctx context.Context) (int64, error)
}

// PostRepository defines post data access methods.
type PostRepository interface {
	// Create persists a new post, stamping created_at/updated_at.
	Create(ctx context.Context, p *model.Post) (*model.Post, error)

	// ListByProfileID returns one page of a profile's posts plus the total
	// count for that profile, newest first.
	ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Post, int64, error)

	// Count returns the total number of stored posts.
	Count(ctx context.Context) (int64, error)
}

// FollowerRepository defines follower data access methods.
type FollowerRepository interface {
	// Create persists a new follower, stamping created_at/updated_at.
	Create(ctx context.Context, f *model.Follower) (*model.Follower, error)

	// ListByProfileID returns one page of a profile's followers plus the
	// total count for that profile, newest first.
	ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Follower, int64, error)

	// Count returns the total number of stored followers.
	Count(ctx context.Context) (int64, error)
}
