package models

import "time"

// ReactionChoice is a viewer's expressed reaction on a comment. A viewer holds
// exactly one of none/like/dislike per comment at any time.
type ReactionChoice string

const (
	ReactionNone    ReactionChoice = "none"
	ReactionLike    ReactionChoice = "like"
	ReactionDislike ReactionChoice = "dislike"
)

// Valid reports whether c is one of the three known choices.
func (c ReactionChoice) Valid() bool {
	switch c {
	case ReactionNone, ReactionLike, ReactionDislike:
		return true
	}
	return false
}

// CommentReaction records a viewer's durable reaction choice on a comment.
// At most one row exists per (comment, user) pair; choosing ReactionNone
// removes the row.
type CommentReaction struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CommentID uint           `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	UserID    uint           `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	Choice    ReactionChoice `json:"choice" gorm:"size:10;not null"`
	CreatedAt time.Time      `json:"created_at"`
}

// ApplyReactionRequest defines the request body for reacting to a comment
type ApplyReactionRequest struct {
	Choice ReactionChoice `json:"choice" validate:"required"`
}

// ReactionResult is returned after a reaction is applied: the new tallies and
// the viewer's current choice.
type ReactionResult struct {
	CommentID uint           `json:"comment_id"`
	Likes     int            `json:"likes"`
	DisLikes  int            `json:"dis_likes"`
	Choice    ReactionChoice `json:"choice"`
}

// ReactionDeltas computes the signed counter adjustments for a viewer moving
// from one choice to another. Repeating the current choice yields zero deltas,
// so retries never double-count.
func ReactionDeltas(prev, next ReactionChoice) (dLikes, dDisLikes int) {
	if prev == next {
		return 0, 0
	}
	switch prev {
	case ReactionLike:
		dLikes--
	case ReactionDislike:
		dDisLikes--
	}
	switch next {
	case ReactionLike:
		dLikes++
	case ReactionDislike:
		dDisLikes++
	}
	return dLikes, dDisLikes
}
