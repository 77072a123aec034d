package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/bockster6669/blog-app/internal/middleware"
	"github.com/bockster6669/blog-app/internal/models"
	"github.com/bockster6669/blog-app/internal/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the handler tests. They mirror the
// Postgres/Mongo implementations' contracts, including the typed errors.

type fakeCommentRepo struct {
	nextID   uint
	comments map[uint]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: map[uint]*models.Comment{}}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	if comment.ParentID != nil {
		parent, ok := r.comments[*comment.ParentID]
		if !ok || parent.PostID != comment.PostID || parent.Deleted {
			return models.ErrParentMismatch
		}
	}
	comment.ID = r.nextID
	comment.Version = 1
	comment.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	comment.UpdatedAt = comment.CreatedAt
	r.nextID++
	stored := *comment
	r.comments[stored.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, comment := range r.comments {
		if comment.PostID == postID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeCommentRepo) CountCommentsByPostID(postID string) (int64, error) {
	var count int64
	for _, comment := range r.comments {
		if comment.PostID == postID && !comment.Deleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) UpdateContent(id uint, content string, expectedVersion *int) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.Deleted {
		return nil, models.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != comment.Version {
		return nil, models.ErrVersionConflict
	}
	comment.Content = content
	comment.Version++
	comment.UpdatedAt = time.Now()
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) HasReplies(id uint) (bool, error) {
	for _, comment := range r.comments {
		if comment.ParentID != nil && *comment.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCommentRepo) Tombstone(id uint) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.Deleted {
		return nil, models.ErrNotFound
	}
	comment.Content = ""
	comment.Deleted = true
	comment.Likes = 0
	comment.DisLikes = 0
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	if _, ok := r.comments[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteCommentsByPostID(postID string) error {
	for id, comment := range r.comments {
		if comment.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	r.posts[post.ID.Hex()] = &stored
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) GetPostsByAuthorID(_ context.Context, authorID uint, _, _ int64) ([]models.Post, error) {
	var out []models.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) GetAllPosts(_ context.Context, _, _ int64) ([]models.Post, error) {
	var out []models.Post
	for _, post := range r.posts {
		out = append(out, *post)
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	if _, ok := r.posts[id]; !ok {
		return models.ErrNotFound
	}
	stored := *post
	r.posts[id] = &stored
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type reactionKey struct {
	commentID uint
	userID    uint
}

type fakeReactionRepo struct {
	comments  *fakeCommentRepo
	reactions map[reactionKey]models.ReactionChoice
}

func newFakeReactionRepo(comments *fakeCommentRepo) *fakeReactionRepo {
	return &fakeReactionRepo{comments: comments, reactions: map[reactionKey]models.ReactionChoice{}}
}

func (r *fakeReactionRepo) ApplyReaction(_ context.Context, commentID, userID uint, choice models.ReactionChoice) (*models.ReactionResult, error) {
	comment, ok := r.comments.comments[commentID]
	if !ok || comment.Deleted {
		return nil, models.ErrNotFound
	}

	key := reactionKey{commentID: commentID, userID: userID}
	prev, ok := r.reactions[key]
	if !ok {
		prev = models.ReactionNone
	}

	dLikes, dDisLikes := models.ReactionDeltas(prev, choice)
	comment.Likes += dLikes
	comment.DisLikes += dDisLikes

	if choice == models.ReactionNone {
		delete(r.reactions, key)
	} else {
		r.reactions[key] = choice
	}

	return &models.ReactionResult{
		CommentID: commentID,
		Likes:     comment.Likes,
		DisLikes:  comment.DisLikes,
		Choice:    choice,
	}, nil
}

func (r *fakeReactionRepo) GetUserReaction(commentID, userID uint) (models.ReactionChoice, error) {
	choice, ok := r.reactions[reactionKey{commentID: commentID, userID: userID}]
	if !ok {
		return models.ReactionNone, nil
	}
	return choice, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
	preferences   map[uint]models.NotificationPreferences
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{preferences: map[uint]models.NotificationPreferences{}}
}

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	notification.ID = uint(len(r.notifications) + 1)
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, _, _ int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(notificationID, recipientID uint) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	for i := range r.notifications {
		if r.notifications[i].RecipientID == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) GetPreferences(userID uint) (models.NotificationPreferences, error) {
	if prefs, ok := r.preferences[userID]; ok {
		return prefs, nil
	}
	return models.DefaultNotificationPreferences(userID), nil
}

func (r *fakeNotificationRepo) SavePreferences(prefs *models.NotificationPreferences) error {
	r.preferences[prefs.UserID] = *prefs
	return nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range r.users {
		if user.FirebaseUID == firebaseUID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

// newTestContext builds an echo context for a handler invocation. A non-zero
// userID attaches JWT claims the way JWTAuthMiddleware would.
func newTestContext(e *echo.Echo, method, target string, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.ContextUserKey, &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}
