package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bockster6669/blog-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPreferences(t *testing.T) {
	e := newTestEcho()
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo()
	handler := NewNotificationHandler(notifications, users)

	t.Run("defaults when never saved", func(t *testing.T) {
		c, rec := newTestContext(e, http.MethodGet, "/api/v1/profile/notification-preferences", "", 3)
		require.NoError(t, handler.GetPreferences(c))

		var prefs models.NotificationPreferences
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
		assert.True(t, prefs.Email)
		assert.True(t, prefs.SMS)
		assert.True(t, prefs.Push)
	})

	t.Run("saved form round-trips", func(t *testing.T) {
		body := `{"notifications_email":false,"notifications_sms":false,"notifications_push":true}`
		c, rec := newTestContext(e, http.MethodPut, "/api/v1/profile/notification-preferences", body, 3)
		require.NoError(t, handler.UpdatePreferences(c))
		require.Equal(t, http.StatusOK, rec.Code)

		c, rec = newTestContext(e, http.MethodGet, "/api/v1/profile/notification-preferences", "", 3)
		require.NoError(t, handler.GetPreferences(c))
		var prefs models.NotificationPreferences
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
		assert.False(t, prefs.Email)
		assert.False(t, prefs.SMS)
		assert.True(t, prefs.Push)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		c, _ := newTestContext(e, http.MethodPut, "/api/v1/profile/notification-preferences",
			`{"notifications_email":true}`, 3)
		err := handler.UpdatePreferences(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, _ := newTestContext(e, http.MethodGet, "/api/v1/profile/notification-preferences", "", 0)
		err := handler.GetPreferences(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
	})
}

func TestMarkAsRead_ScopedToRecipient(t *testing.T) {
	e := newTestEcho()
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo()
	handler := NewNotificationHandler(notifications, users)

	require.NoError(t, notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     2,
		RecipientID: 1,
		Message:     "commented on your post",
	}))

	// Another user can not mark someone else's notification.
	c, _ := newTestContext(e, http.MethodPut, "/api/v1/notifications/1/read", "", 99)
	c.SetPath("/notifications/:id/read")
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := handler.MarkAsRead(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))

	// The recipient can.
	c, rec := newTestContext(e, http.MethodPut, "/api/v1/notifications/1/read", "", 1)
	c.SetPath("/notifications/:id/read")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, handler.MarkAsRead(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	count, err := notifications.GetUnreadCount(1)
	require.NoError(t, err)
	assert.Zero(t, count)
}
