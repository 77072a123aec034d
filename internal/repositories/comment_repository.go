package repositories

import (
	"errors"
	"time"

	"github.com/bockster6669/blog-app/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID string) ([]models.Comment, error)
	CountCommentsByPostID(postID string) (int64, error)
	UpdateContent(id uint, content string, expectedVersion *int) (*models.Comment, error)
	HasReplies(id uint) (bool, error)
	Tombstone(id uint) (*models.Comment, error)
	DeleteComment(id uint) error
	DeleteCommentsByPostID(postID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment. For replies it verifies, inside one
// transaction, that the parent is a live comment on the same post.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if comment.ParentID != nil {
			var parent models.Comment
			err := tx.First(&parent, *comment.ParentID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrParentMismatch
			}
			if err != nil {
				return err
			}
			if parent.PostID != comment.PostID || parent.Deleted {
				return models.ErrParentMismatch
			}
		}
		return tx.Create(comment).Error
	})
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a post, created_at ascending
// with id as tiebreak, so the flat format is chronological.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountCommentsByPostID counts the live comments on a post. Tombstones are
// excluded so the displayed count reflects readable comments only.
func (r *PostgresCommentRepository) CountCommentsByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("post_id = ? AND deleted = false", postID).
		Count(&count).Error
	return count, err
}

// UpdateContent replaces a comment's content and bumps its version. When
// expectedVersion is non-nil the update only applies if the stored version
// still matches, otherwise models.ErrVersionConflict is returned. Tombstoned
// comments can not be edited.
func (r *PostgresCommentRepository) UpdateContent(id uint, content string, expectedVersion *int) (*models.Comment, error) {
	var updated models.Comment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Comment{}).
			Where("id = ? AND deleted = false", id)
		if expectedVersion != nil {
			query = query.Where("version = ?", *expectedVersion)
		}
		res := query.Updates(map[string]interface{}{
			"content":    content,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a stale token from a missing comment.
			var existing models.Comment
			err := tx.Where("id = ? AND deleted = false", id).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			if err != nil {
				return err
			}
			return models.ErrVersionConflict
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// HasReplies reports whether any comment references id as its parent
func (r *PostgresCommentRepository) HasReplies(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}

// Tombstone soft-deletes a comment that still has replies: content is blanked,
// counters and reactions are cleared, and the row stays as an attachment point
// for its reply subtree.
func (r *PostgresCommentRepository) Tombstone(id uint) (*models.Comment, error) {
	var tombstoned models.Comment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND deleted = false", id).
			Updates(map[string]interface{}{
				"content":    "",
				"deleted":    true,
				"likes":      0,
				"dis_likes":  0,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}
		return tx.First(&tombstoned, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &tombstoned, nil
}

// DeleteComment removes a leaf comment and its reactions outright
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// DeleteCommentsByPostID removes every comment on a post, used when the post
// itself is deleted.
func (r *PostgresCommentRepository) DeleteCommentsByPostID(postID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error
	})
}
