package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// UpsertBudget sets or replaces the budget amount for the (user, category,
// window) key. The write is a single INSERT ... ON CONFLICT DO UPDATE
// against the unique key index, so two concurrent upserts for the same key
// can never produce duplicate rows.
func (s *budgetService) UpsertBudget(userID, categoryID uint, amount float64, startDate, endDate time.Time) (*models.Budget, bool, error) {
	if amount <= 0 {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date and end date are required")
	}
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)
	if endDate.Before(startDate) {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}

	// Verify category exists and belongs to user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrCategoryNotFound
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// The created flag only affects the response status, so a plain lookup
	// before the atomic write is enough; the data itself cannot race.
	var existing int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND start_date = ? AND end_date = ?", userID, categoryID, startDate, endDate).
		Count(&existing).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     round2(amount),
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "category_id"}, {Name: "start_date"}, {Name: "end_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     budget.Amount,
			"updated_at": time.Now(),
		}),
	}).Create(budget).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Re-read the row: on the conflict path the in-memory struct does not
	// carry the existing row's id and timestamps.
	var saved models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND category_id = ? AND start_date = ? AND end_date = ?", userID, categoryID, startDate, endDate).
		First(&saved).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &saved, existing == 0, nil
}

// GetUserBudgets returns the user's budgets, optionally filtered to windows
// inside the given month, newest window first.
func (s *budgetService) GetUserBudgets(userID uint, month, year *int) ([]models.Budget, error) {
	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)

	if month != nil && year != nil {
		if *month < 1 || *month > 12 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		firstDay := time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		lastDay := firstDay.AddDate(0, 1, -1)
		base = base.Where("start_date >= ? AND end_date <= ?", firstDay, lastDay)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Order("end_date DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// DeleteBudget deletes a budget owned by the user.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
