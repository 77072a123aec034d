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

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // Get own profile
	g.PUT("/profile", h.UpdateProfile) // Update own profile
	g.GET("/users/:id", h.GetUser)     // Get other user's profile by ID
	g.DELETE("/profile", h.DeleteUser) // Delete own user profile
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		log.Printf("Error fetching user %d: %v", id, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, user.Compact())
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		log.Printf("Error fetching profile for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		log.Printf("Error fetching profile for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch profile")
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Image != "" {
		user.Image = req.Image
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		log.Printf("Error updating profile for user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser deletes the authenticated user's account
func (h *UserHandler) DeleteUser(c echo.Context) error {
	claims := middleware.UserClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User is not authenticated or session is invalid")
	}

	if err := h.userRepository.DeleteUser(claims.UserID); err != nil {
		log.Printf("Error deleting user %d: %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete user")
	}
	return c.NoContent(http.StatusNoContent)
}
