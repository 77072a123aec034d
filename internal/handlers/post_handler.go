package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/bockster6669/blog-app/internal/middleware"
	"github.com/bockster6669/blog-app/internal/models"
	"github.com/bockster6669/blog-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository // To derive comment counts at read time
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/users/:id/posts", h.GetPostsByAuthor)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID:  claims.UserID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		log.Printf("Error creating post: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPosts retrieves posts with skip/limit pagination
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	if err != nil {
		log.Printf("Error fetching posts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	for i := range posts {
		h.attachCommentsCount(&posts[i])
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPostsByAuthor retrieves a user's posts with skip/limit pagination
func (h *PostHandler) GetPostsByAuthor(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	posts, err := h.postRepository.GetPostsByAuthorID(c.Request().Context(), uint(authorID), skip, limit)
	if err != nil {
		log.Printf("Error fetching posts by user %d: %v", authorID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	for i := range posts {
		h.attachCommentsCount(&posts[i])
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a single post with its derived comment count
func (h *PostHandler) GetPost(c echo.Context) error {
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	h.attachCommentsCount(post)
	return c.JSON(http.StatusOK, post)
}

// attachCommentsCount fills in the derived comment count. The count is always
// recomputed from the comment store, never persisted alongside the post.
func (h *PostHandler) attachCommentsCount(post *models.Post) {
	count, err := h.commentRepository.CountCommentsByPostID(post.ID.Hex())
	if err != nil {
		log.Printf("Error counting comments for post %s: %v", post.ID.Hex(), err)
		return
	}
	post.CommentsCount = count
}

// UpdatePost updates an existing post (only the author)
func (h *PostHandler) UpdatePost(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	if post.AuthorID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURLs != nil {
		post.ImageURLs = req.ImageURLs
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error updating post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update post")
	}

	h.attachCommentsCount(post)
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post and its comment thread (only the author)
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error fetching post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch post")
	}

	if post.AuthorID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		log.Printf("Error deleting post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	if err := h.commentRepository.DeleteCommentsByPostID(postID); err != nil {
		log.Printf("Error deleting comments of post %s: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}
