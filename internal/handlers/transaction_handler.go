package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/pagination"
	"chitieu/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	Amount      float64     `json:"amount" binding:"required,gt=0"`
	Kind        models.Kind `json:"kind" binding:"required,kind"`
	Date        string      `json:"date" binding:"required"`
	Description string      `json:"description" binding:"max=255"`
	CategoryID  *uint       `json:"category_id"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. Omitted fields keep their current value; setting category_id
// to 0 detaches the category.
type UpdateTransactionRequest struct {
	Amount      *float64     `json:"amount" binding:"omitempty,gt=0"`
	Kind        *models.Kind `json:"kind" binding:"omitempty,kind"`
	Date        *string      `json:"date"`
	Description *string      `json:"description" binding:"omitempty,max=255"`
	CategoryID  *uint        `json:"category_id"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record a new expense or income transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, req.CategoryID, req.Kind, req.Amount, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions handles listing the user's transactions.
// @Summary     Get transactions
// @Description Get a paginated list of the authenticated user's transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       limit       query int    false "Page size (default 10, max 100)"
// @Param       kind        query string false "Filter by kind (expense/income)"
// @Param       category_id query int    false "Filter by category"
// @Param       from        query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param       to          query string false "End date (YYYY-MM-DD, inclusive)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	filter, err := transactionFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func transactionFilterFromQuery(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("kind"); v != "" {
		k := models.Kind(v)
		if !k.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
		}
		filter.Kind = &k
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "category_id must be a positive integer")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return filter, err
	}
	filter.FromDate = from

	to, err := parseDateQuery(c, "to")
	if err != nil {
		return filter, err
	}
	filter.ToDate = to

	return filter, nil
}

// GetTransaction handles fetching a single transaction.
// @Summary     Get transaction
// @Description Get a single transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles updating an existing transaction.
// @Summary     Update transaction
// @Description Update an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Updated transaction details"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TransactionUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		Kind:        req.Kind,
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date, "date")
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}

	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			update.ClearCategory = true
		} else {
			update.CategoryID = req.CategoryID
		}
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction.
// @Summary     Delete transaction
// @Description Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
