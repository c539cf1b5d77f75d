package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID uint, name string, kind models.Kind, icon string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
	}

	// Name uniqueness per user is an API convention, not a DB constraint
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category with this name already exists")
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Kind:   kind,
		Icon:   icon,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories retrieves the user's categories, optionally filtered by
// kind, ordered by name.
func (s *categoryService) GetUserCategories(userID uint, kind *models.Kind) ([]models.Category, error) {
	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(userID, categoryID uint, name, icon string, kind *models.Kind) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if icon != "" {
		updates["icon"] = icon
	}
	if kind != nil {
		if !kind.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
		}
		updates["kind"] = *kind
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category. Transactions that reference it keep
// their history with the category reference cleared; budgets tied to it are
// removed with it. The asymmetry is deliberate: transaction history must
// survive, a budget without its category is meaningless.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Update("category_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).
			Delete(&models.Budget{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
