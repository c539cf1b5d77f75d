package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
)

// dateLayout is the calendar-date wire format; dates carry no time-of-day.
const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return userID.(uint), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// parseDate parses a required calendar date string.
func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// parseDateQuery parses an optional calendar date query parameter.
// Returns nil when the parameter is absent.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorResponse documents the error envelope for Swagger.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse documents plain message responses for Swagger.
type MessageResponse struct {
	Message string `json:"message"`
}
