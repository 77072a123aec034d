package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Image       string `json:"image,omitempty"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to the external auth provider's user id
}

// UserCompact is the author shape embedded in comment and notification payloads
type UserCompact struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image,omitempty"`
}

// Compact reduces a User to the fields safe to embed in other payloads
func (u *User) Compact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Image: u.Image}
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Image    string `json:"image,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
