package model

import "time"

// Post represents a single post published by a profile.
// ProfileID references the owning profile's external identifier.
type Post struct {
	PostID        string    `json:"post_id" bson:"post_id"`
	ProfileID     string    `json:"profile_id" bson:"profile_id"`
	Content       string    `json:"content" bson:"content"`
	Likes         int64     `json:"likes" bson:"likes"`
	CommentsCount int64     `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}
