package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB. CommentsCount is derived from
// the comment store at read time and never persisted, so it can not go stale.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	ImageURLs     []string           `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	CommentsCount int64              `json:"comments_count" bson:"-"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=200"`
	Content   string   `json:"content" validate:"required,min=1,max=20000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title     string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content   string   `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
}
