package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the request payload for setting a budget.
type SetBudgetRequest struct {
	CategoryID uint    `json:"category_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
}

// SetBudget handles creating or replacing a budget.
// @Summary     Set a budget
// @Description Create a budget for a category and date window, or replace the
// @Description amount if one already exists for the same window
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget replaced"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, created, err := h.budgetService.UpsertBudget(userID, req.CategoryID, req.Amount, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"budget": budget})
}

// GetBudgets handles listing the user's budgets.
// @Summary     Get budgets
// @Description Get the authenticated user's budgets, optionally restricted to
// @Description those whose window falls within a given month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12, requires year)"
// @Param       year  query int false "Year (requires month)"
// @Success     200 {array} models.Budget "Budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := parseIntQuery(c, "month", 1, 12)
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := parseIntQuery(c, "year", 1970, 9999)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if (month == nil) != (year == nil) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month and year must be provided together"))
		return
	}

	budgets, err := h.budgetService.GetUserBudgets(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

func parseIntQuery(c *gin.Context, name string, min, max int) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" is out of range")
	}
	return &n, nil
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}
