package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	createCategoryFn    func(userID uint, name string, kind models.Kind, icon string) (*models.Category, error)
	getUserCategoriesFn func(userID uint, kind *models.Kind) ([]models.Category, error)
	getCategoryByIDFn   func(userID, categoryID uint) (*models.Category, error)
	updateCategoryFn    func(userID, categoryID uint, name, icon string, kind *models.Kind) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID uint) error
}

func (m *mockCategoryService) CreateCategory(userID uint, name string, kind models.Kind, icon string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name, kind, icon)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(userID uint, kind *models.Kind) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, kind)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, name, icon string, kind *models.Kind) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name, icon, kind)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetCategories)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_ uint, name string, kind models.Kind, icon string) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: 1}, Name: name, Kind: kind, Icon: icon}, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","kind":"expense","icon":"utensils"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		category := result["category"].(map[string]interface{})
		if category["name"] != "Food" {
			t.Errorf("expected name Food, got %v", category["name"])
		}
	})

	t.Run("returns 400 on invalid kind", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"name":"Food","kind":"transfer"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "POST", "/categories", `{"kind":"expense"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("passes kind filter to service", func(t *testing.T) {
		var gotKind *models.Kind
		svc := &mockCategoryService{
			getUserCategoriesFn: func(_ uint, kind *models.Kind) ([]models.Category, error) {
				gotKind = kind
				return []models.Category{{Base: models.Base{ID: 1}, Name: "Food"}}, nil
			},
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?kind=income", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotKind == nil || *gotKind != models.KindIncome {
			t.Errorf("expected kind filter income, got %v", gotKind)
		}
	})

	t.Run("rejects invalid kind filter", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "GET", "/categories?kind=loans", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) error { return apperrors.ErrCategoryNotFound },
		}
		handler := NewCategoryHandler(svc)
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/9", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{})
		r := setupCategoryRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/9", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
