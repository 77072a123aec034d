package models

import "time"

// Notification represents an activity notification delivered to a user
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // comment, reply
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id"`                  // post ID or comment ID
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, comment
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

const (
	NotificationTypeComment = "comment"
	NotificationTypeReply   = "reply"
)

// NotificationPreferences holds a user's delivery channel choices. A user
// without a stored row gets the defaults from DefaultNotificationPreferences.
type NotificationPreferences struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex"`
	Email     bool      `json:"notifications_email"`
	SMS       bool      `json:"notifications_sms"`
	Push      bool      `json:"notifications_push"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultNotificationPreferences returns the preferences assumed for users who
// never saved the notifications form: everything enabled.
func DefaultNotificationPreferences(userID uint) NotificationPreferences {
	return NotificationPreferences{UserID: userID, Email: true, SMS: true, Push: true}
}

// Enabled reports whether any delivery channel is on. Activity rows are only
// written for users with at least one channel enabled.
func (p NotificationPreferences) Enabled() bool {
	return p.Email || p.SMS || p.Push
}

// UpdateNotificationPreferencesRequest defines the notifications form body
type UpdateNotificationPreferencesRequest struct {
	Email *bool `json:"notifications_email" validate:"required"`
	SMS   *bool `json:"notifications_sms" validate:"required"`
	Push  *bool `json:"notifications_push" validate:"required"`
}
