package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/middleware"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService services.UserServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with username, email, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} MessageResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Username or email taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := h.userService.CreateUser(req.Username, req.Email, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token plus profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid password"
// @Failure     404 {object} ErrorResponse "Unknown user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.GetUserByUsername(req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !h.userService.VerifyPassword(user, req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"default_currency": user.DefaultCurrency,
			"monthly_limit":    user.MonthlyLimit,
		},
	})
}

// GetProfile returns the authenticated user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
