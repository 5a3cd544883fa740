package model

import "time"

// Follower represents a user following a profile.
type Follower struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	ProfileID string    `json:"profile_id" bson:"profile_id"`
	Name      string    `json:"name" bson:"name"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
