package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/bockster6669/blog-app/internal/middleware"
	"github.com/bockster6669/blog-app/internal/models"
	"github.com/bockster6669/blog-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments and reactions
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository // To resolve the owning post and its author
	reactionRepository     repositories.ReactionRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, reactionRepo repositories.ReactionRepository, notifRepo repositories.NotificationRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		reactionRepository:     reactionRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.PATCH("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/reactions", h.ApplyReaction)
}

// CreateComment creates a top-level comment or, when parent_id is supplied,
// a reply nested under another comment on the same post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify post exists
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error resolving post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve post")
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: claims.UserID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		if errors.Is(err, models.ErrParentMismatch) {
			return echo.NewHTTPError(http.StatusBadRequest, "parent_id does not resolve to a comment on this post")
		}
		log.Printf("Error creating comment on post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	h.notifyCommentCreated(post, comment)

	return c.JSON(http.StatusCreated, comment)
}

// notifyCommentCreated writes an activity notification for the post owner or,
// for replies, the parent comment's author. Skipped when the actor would
// notify themselves or the recipient disabled every channel. Failures are
// logged and never surface to the commenting user.
func (h *CommentHandler) notifyCommentCreated(post *models.Post, comment *models.Comment) {
	recipientID := post.AuthorID
	notifType := models.NotificationTypeComment
	targetID := comment.PostID
	targetType := "post"
	message := "commented on your post"

	if comment.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(*comment.ParentID)
		if err != nil {
			log.Printf("Error resolving parent comment %d for notification: %v", *comment.ParentID, err)
			return
		}
		recipientID = parent.AuthorID
		notifType = models.NotificationTypeReply
		targetID = strconv.FormatUint(uint64(parent.ID), 10)
		targetType = "comment"
		message = "replied to your comment"
	}

	if recipientID == comment.AuthorID {
		return
	}

	prefs, err := h.notificationRepository.GetPreferences(recipientID)
	if err != nil {
		log.Printf("Error loading notification preferences for user %d: %v", recipientID, err)
		return
	}
	if !prefs.Enabled() {
		return
	}

	notification := &models.Notification{
		Type:        notifType,
		ActorID:     comment.AuthorID,
		RecipientID: recipientID,
		TargetID:    targetID,
		TargetType:  targetType,
		Message:     message,
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		log.Printf("Error creating %s notification for user %d: %v", notifType, recipientID, err)
	}
}

// GetCommentsByPostID retrieves the comments for a post as a nested reply
// forest. Pass ?format=flat to get the raw flat collection instead.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error resolving post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve post")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		log.Printf("Error fetching comments for post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
	}

	if c.QueryParam("format") == "flat" {
		return c.JSON(http.StatusOK, comments)
	}
	return c.JSON(http.StatusOK, models.BuildCommentTree(comments))
}

// UpdateComment replaces a comment's content. Only the author may edit, and an
// optional version token in the body guards against overwriting a concurrent
// edit.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "commentId is missing or invalid in parameters")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Data.Content = strings.TrimSpace(req.Data.Content)
	if err := c.Validate(&req.Data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		log.Printf("Error fetching comment %d: %v", commentID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comment")
	}
	if comment.Deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if err := authorizeCommentMutation(OpEditComment, claims.UserID, comment); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this comment")
	}

	updated, err := h.commentRepository.UpdateContent(uint(commentID), req.Data.Content, req.Data.Version)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		case errors.Is(err, models.ErrVersionConflict):
			return echo.NewHTTPError(http.StatusConflict, "Comment was modified by a concurrent edit")
		default:
			log.Printf("Error updating comment %d: %v", commentID, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update comment")
		}
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteComment removes a comment. A comment that still has replies becomes a
// tombstone so its reply subtree stays attached; a leaf is removed outright.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "commentId is missing or invalid in parameters")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		log.Printf("Error fetching comment %d: %v", commentID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comment")
	}
	if comment.Deleted {
		// An already tombstoned comment reads as gone.
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if err := authorizeCommentMutation(OpDeleteComment, claims.UserID, comment); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	hasReplies, err := h.commentRepository.HasReplies(uint(commentID))
	if err != nil {
		log.Printf("Error checking replies of comment %d: %v", commentID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}

	if hasReplies {
		tombstoned, err := h.commentRepository.Tombstone(uint(commentID))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
			}
			log.Printf("Error tombstoning comment %d: %v", commentID, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
		}
		return c.JSON(http.StatusOK, tombstoned)
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		log.Printf("Error deleting comment %d: %v", commentID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}

	return c.JSON(http.StatusOK, comment)
}

// ApplyReaction sets the requester's reaction on a comment to like, dislike or
// none. The viewer holds one choice at a time; switching moves both counters
// atomically and repeating the current choice changes nothing.
func (h *CommentHandler) ApplyReaction(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "commentId is missing or invalid in parameters")
	}

	var req models.ApplyReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if !req.Choice.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("choice must be one of %q, %q, %q", models.ReactionLike, models.ReactionDislike, models.ReactionNone))
	}

	result, err := h.reactionRepository.ApplyReaction(c.Request().Context(), uint(commentID), claims.UserID, req.Choice)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		log.Printf("Error applying reaction to comment %d: %v", commentID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong with reactions")
	}

	return c.JSON(http.StatusOK, result)
}
