package model

import "time"

// Profile represents an organization profile document.
// ProfileID is the caller-supplied external identifier and is immutable
// once the profile has been created.
type Profile struct {
	ProfileID       string   `json:"profile_id" bson:"profile_id"`
	Name            string   `json:"name" bson:"name"`
	URL             string   `json:"url" bson:"url"`
	Description     string   `json:"description,omitempty" bson:"description,omitempty"`
	Website         string   `json:"website,omitempty" bson:"website,omitempty"`
	Industry        string   `json:"industry,omitempty" bson:"industry,omitempty"`
	FollowersCount  int64    `json:"followers_count" bson:"followers_count"`
	Headcount       string   `json:"headcount,omitempty" bson:"headcount,omitempty"`
	Specialties     []string `json:"specialties,omitempty" bson:"specialties,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`

	// Acquisition markers. A nil marker means the sub-resource kind has
	// never been acquired; a set marker with zero stored rows means the
	// profile genuinely has none.
	PostsSyncedAt     *time.Time `json:"posts_synced_at,omitempty" bson:"posts_synced_at,omitempty"`
	FollowersSyncedAt *time.Time `json:"followers_synced_at,omitempty" bson:"followers_synced_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// SearchFilters holds the optional search constraints plus pagination.
// Absent optional filters impose no constraint.
type SearchFilters struct {
	MinFollowers *int64 `json:"min_followers,omitempty" validate:"omitempty,gte=0"`
	MaxFollowers *int64 `json:"max_followers,omitempty" validate:"omitempty,gte=0"`
	Industry     string `json:"industry,omitempty"`
	Name         string `json:"name,omitempty"`
	Page         int    `json:"page" validate:"gte=1"`
	Limit        int    `json:"limit" validate:"gte=1"`
}

// Skip returns the listing offset for the requested page.
func (f SearchFilters) Skip() int {
	return (f.Page - 1) * f.Limit
}
