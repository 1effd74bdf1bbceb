package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input model.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, tokens, err := ctrl.authService.Register(input)
	if err != nil {
		log.Warn("Registration failed", map[string]interface{}{
			"email": input.Email,
			"error": err.Error(),
		})
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input model.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	user, tokens, err := ctrl.authService.Login(input.Email, input.Password)
	if err != nil {
		log.Warn("Login failed", map[string]interface{}{
			"email": input.Email,
		})
		respondServiceError(c, err, "login")
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"tokens":  tokens,
	})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	token, claims, ok := middleware.GetToken(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(token, claims); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetMe returns the current user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe changes the current user's display name
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input model.ProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, input)
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{"user": user})
}
