package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/services"
)

// UserHandler handles user settings requests.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// SetLimitRequest represents the request payload for setting the monthly
// spending limit.
type SetLimitRequest struct {
	Limit *float64 `json:"limit" binding:"required,gte=0"`
}

// SetMonthlyLimit handles updating the user's monthly spending limit.
// @Summary     Set monthly spending limit
// @Description Set the authenticated user's monthly spending limit
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetLimitRequest true "New limit"
// @Success     200 {object} MessageResponse "Limit updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/limit [put]
func (h *UserHandler) SetMonthlyLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.SetMonthlyLimit(userID, *req.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Monthly limit updated successfully",
		"new_limit": user.MonthlyLimit,
	})
}

// SetCurrencyRequest represents the request payload for changing the default
// display currency.
type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,iso4217"`
}

// SetDefaultCurrency handles updating the user's default currency.
// @Summary     Set default currency
// @Description Set the authenticated user's default display currency
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetCurrencyRequest true "ISO 4217 currency code"
// @Success     200 {object} MessageResponse "Currency updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/currency [put]
func (h *UserHandler) SetDefaultCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.SetDefaultCurrency(userID, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Default currency updated successfully",
		"default_currency": user.DefaultCurrency,
	})
}
