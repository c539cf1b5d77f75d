package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name string      `json:"name" binding:"required,min=1,max=100"`
	Kind models.Kind `json:"kind" binding:"required,kind"`
	Icon string      `json:"icon" binding:"max=100"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
type UpdateCategoryRequest struct {
	Name string       `json:"name" binding:"omitempty,min=1,max=100"`
	Kind *models.Kind `json:"kind" binding:"omitempty,kind"`
	Icon string       `json:"icon" binding:"max=100"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create a new expense or income category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Kind, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories handles listing the user's categories.
// @Summary     Get categories
// @Description Get the authenticated user's categories, optionally filtered by kind
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       kind query string false "Filter by kind (expense/income)"
// @Success     200 {array} models.Category "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var kind *models.Kind
	if v := c.Query("kind"); v != "" {
		k := models.Kind(v)
		if !k.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'"))
			return
		}
		kind = &k
	}

	categories, err := h.categoryService.GetUserCategories(userID, kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// UpdateCategory handles updating an existing category.
// @Summary     Update category
// @Description Update an existing category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Category ID"
// @Param       request body UpdateCategoryRequest true "Updated category details"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input or category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.Icon, req.Kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles deleting a category.
// @Summary     Delete category
// @Description Delete a category; its transactions become uncategorized, its budgets are removed
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid category ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
