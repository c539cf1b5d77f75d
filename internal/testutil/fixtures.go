package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chitieu/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:        username,
		Email:           username + "@test.com",
		Password:        string(hash),
		DefaultCurrency: "VND",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given kind.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, kind models.Kind) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Kind:   kind,
		Icon:   "tag",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction of the given kind and amount on
// the given date. categoryID may be nil for an uncategorized transaction.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, kind models.Kind, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget for the given category over [start, end].
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, amount float64, start, end time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		StartDate:  start,
		EndDate:    end,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// Date is shorthand for a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
