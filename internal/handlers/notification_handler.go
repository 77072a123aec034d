package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/bockster6669/blog-app/internal/middleware"
	"github.com/bockster6669/blog-app/internal/models"
	"github.com/bockster6669/blog-app/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.GET("/profile/notification-preferences", h.GetPreferences)
	g.PUT("/profile/notification-preferences", h.UpdatePreferences)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if actor, ok := userCache[n.ActorID]; ok {
			enriched[i].Actor = actor
			continue
		}
		user, err := h.userRepository.GetUserByID(n.ActorID)
		if err != nil {
			continue
		}
		userCache[n.ActorID] = user.Compact()
		enriched[i].Actor = userCache[n.ActorID]
	}
	return enriched
}

// GetNotifications returns the requester's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := h.notificationRepository.GetByRecipientID(claims.UserID, page, limit)
	if err != nil {
		log.Printf("Error fetching notifications for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch notifications")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": h.enrichNotifications(notifications),
		"total":         total,
		"page":          page,
		"total_pages":   int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	count, err := h.notificationRepository.GetUnreadCount(claims.UserID)
	if err != nil {
		log.Printf("Error counting unread notifications for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks one of the requester's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.notificationRepository.MarkAsRead(uint(id), claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		log.Printf("Error marking notification %d as read: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update notification")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead marks every unread notification of the requester as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	if err := h.notificationRepository.MarkAllAsRead(claims.UserID); err != nil {
		log.Printf("Error marking notifications as read for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update notifications")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPreferences returns the requester's notification delivery preferences
func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	prefs, err := h.notificationRepository.GetPreferences(claims.UserID)
	if err != nil {
		log.Printf("Error loading notification preferences for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load preferences")
	}
	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences saves the notifications form for the requester
func (h *NotificationHandler) UpdatePreferences(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	var req models.UpdateNotificationPreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	prefs := &models.NotificationPreferences{
		UserID: claims.UserID,
		Email:  *req.Email,
		SMS:    *req.SMS,
		Push:   *req.Push,
	}
	if err := h.notificationRepository.SavePreferences(prefs); err != nil {
		log.Printf("Error saving notification preferences for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save preferences")
	}
	return c.JSON(http.StatusOK, prefs)
}
