package models

import "time"

// MaxCommentLength is the upper bound on a comment body after trimming.
const MaxCommentLength = 10000

// Comment represents a comment on a post. A comment with a non-nil ParentID is
// a reply to another comment on the same post. Replies is derived at read time
// by BuildCommentTree and never stored.
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	PostID    string     `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	AuthorID  uint       `json:"author_id" gorm:"index"`
	ParentID  *uint      `json:"parent_id,omitempty" gorm:"index"`
	Content   string     `json:"content"`
	Likes     int        `json:"likes" gorm:"not null;default:0"`
	DisLikes  int        `json:"dis_likes" gorm:"not null;default:0"`
	Version   int        `json:"version" gorm:"not null;default:1"`
	Deleted   bool       `json:"deleted" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Replies   []*Comment `json:"replies" gorm:"-"`
}

// CreateCommentRequest defines the request body for creating a new comment or reply
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=10000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// UpdateCommentData carries the mutable comment fields of an update request
type UpdateCommentData struct {
	Content string `json:"content" validate:"required,max=10000"`
	Version *int   `json:"version,omitempty"` // optional optimistic-concurrency token
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Data UpdateCommentData `json:"data"`
}
