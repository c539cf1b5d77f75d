package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
	"chitieu/internal/pagination"
	"chitieu/internal/realtime"
)

// transactionService handles transaction-related business logic. Every
// successful write is followed by a fire-and-forget notification so other
// connected sessions of the same user refresh their view.
type transactionService struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, notifier realtime.Notifier) TransactionServicer {
	return &transactionService{db: db, notifier: notifier}
}

// notify publishes a data-changed event. Failures never reach the caller.
func (s *transactionService) notify(userID uint, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, message)
}

// CreateTransaction creates a new transaction for a user.
func (s *transactionService) CreateTransaction(
	userID uint,
	categoryID *uint,
	kind models.Kind,
	amount float64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	// Verify category ownership when a category is given
	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *categoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      round2(amount),
		Description: description,
		Date:        dateOnly(date),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID, "A new transaction was added")
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Kind != nil {
		q = q.Where("kind = ?", *f.Kind)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", dateOnly(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", dateOnly(*f.ToDate))
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction updates the given fields of a transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = round2(*update.Amount)
	}
	if update.Date != nil {
		updates["date"] = dateOnly(*update.Date)
	}
	if update.Kind != nil {
		if !update.Kind.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
		}
		updates["kind"] = *update.Kind
	}
	if update.ClearCategory {
		// Typed nil: an untyped nil is resolved against the loaded model and
		// writes the current value back instead of NULL.
		updates["category_id"] = (*uint)(nil)
	} else if update.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *update.CategoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
		updates["category_id"] = *update.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Reload so the returned row carries the current category association.
		transaction, err = s.GetTransactionByID(userID, transactionID)
		if err != nil {
			return nil, err
		}
	}

	s.notify(userID, fmt.Sprintf("Transaction %d was updated", transactionID))
	return transaction, nil
}

// DeleteTransaction deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID, fmt.Sprintf("Transaction %d was deleted", transactionID))
	return nil
}
