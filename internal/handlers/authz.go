package handlers

import "github.com/bockster6669/blog-app/internal/models"

// CommentOperation names an identity-gated mutation on a comment.
type CommentOperation string

const (
	OpEditComment   CommentOperation = "edit"
	OpDeleteComment CommentOperation = "delete"
)

// authorizeCommentMutation is the single ownership gate for comment mutations.
// Every handler that edits or deletes a comment goes through here instead of
// comparing identities ad hoc.
func authorizeCommentMutation(op CommentOperation, requesterID uint, comment *models.Comment) error {
	if comment == nil {
		return models.ErrNotFound
	}
	switch op {
	case OpEditComment, OpDeleteComment:
		if comment.AuthorID != requesterID {
			return models.ErrForbidden
		}
		return nil
	default:
		return models.ErrForbidden
	}
}
