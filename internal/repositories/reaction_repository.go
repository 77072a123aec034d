package repositories

import (
	"context"
	"errors"

	"github.com/bockster6669/blog-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for comment reaction operations
type ReactionRepository interface {
	ApplyReaction(ctx context.Context, commentID, userID uint, choice models.ReactionChoice) (*models.ReactionResult, error)
	GetUserReaction(commentID, userID uint) (models.ReactionChoice, error)
}

type postgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a ReactionRepository backed by PostgreSQL
func NewPostgresReactionRepository(db *gorm.DB) ReactionRepository {
	return &postgresReactionRepository{db: db}
}

// ApplyReaction moves the viewer's reaction on a comment to choice. The whole
// switch runs in one transaction with the comment row locked, so both counter
// deltas land together and concurrent reactions from different viewers can not
// lose updates. Repeating the current choice is a no-op.
func (r *postgresReactionRepository) ApplyReaction(ctx context.Context, commentID, userID uint, choice models.ReactionChoice) (*models.ReactionResult, error) {
	var result models.ReactionResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND deleted = false", commentID).
			First(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		prev := models.ReactionNone
		var existing models.CommentReaction
		err = tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error
		switch {
		case err == nil:
			prev = existing.Choice
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first reaction from this viewer
		default:
			return err
		}

		dLikes, dDisLikes := models.ReactionDeltas(prev, choice)
		if dLikes != 0 || dDisLikes != 0 {
			res := tx.Model(&models.Comment{}).
				Where("id = ? AND likes + ? >= 0 AND dis_likes + ? >= 0", commentID, dLikes, dDisLikes).
				Updates(map[string]interface{}{
					"likes":     gorm.Expr("likes + ?", dLikes),
					"dis_likes": gorm.Expr("dis_likes + ?", dDisLikes),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Counter would have gone negative, abort the switch.
				return gorm.ErrInvalidData
			}
			comment.Likes += dLikes
			comment.DisLikes += dDisLikes
		}

		switch {
		case choice == models.ReactionNone && prev != models.ReactionNone:
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&models.CommentReaction{}).Error; err != nil {
				return err
			}
		case choice != models.ReactionNone && prev == models.ReactionNone:
			reaction := models.CommentReaction{CommentID: commentID, UserID: userID, Choice: choice}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
		case choice != models.ReactionNone && prev != choice:
			if err := tx.Model(&models.CommentReaction{}).
				Where("comment_id = ? AND user_id = ?", commentID, userID).
				Update("choice", choice).Error; err != nil {
				return err
			}
		}

		result = models.ReactionResult{
			CommentID: commentID,
			Likes:     comment.Likes,
			DisLikes:  comment.DisLikes,
			Choice:    choice,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserReaction returns the viewer's stored choice for a comment, or
// ReactionNone when no row exists.
func (r *postgresReactionRepository) GetUserReaction(commentID, userID uint) (models.ReactionChoice, error) {
	var reaction models.CommentReaction
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ReactionNone, nil
	}
	if err != nil {
		return models.ReactionNone, err
	}
	return reaction.Choice, nil
}
