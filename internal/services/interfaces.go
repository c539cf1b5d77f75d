package services

import (
	"context"
	"io"
	"time"

	"chitieu/internal/models"
	"chitieu/internal/pagination"
	"chitieu/internal/scan"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	SetMonthlyLimit(userID uint, limit float64) (*models.User, error)
	SetDefaultCurrency(userID uint, currency string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, kind models.Kind, icon string) (*models.Category, error)
	GetUserCategories(userID uint, kind *models.Kind) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, icon string, kind *models.Kind) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
// All set filters are combined with AND; date bounds are inclusive.
type TransactionFilter struct {
	Kind       *models.Kind
	CategoryID *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// TransactionUpdate holds the mutable fields of a transaction. Nil fields are
// left untouched; ClearCategory detaches the category reference.
type TransactionUpdate struct {
	Description   *string
	Amount        *float64
	Date          *time.Time
	Kind          *models.Kind
	CategoryID    *uint
	ClearCategory bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID *uint, kind models.Kind, amount float64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	// UpsertBudget sets or replaces the budget for the (user, category,
	// window) tuple. The bool result is true when a new row was created.
	UpsertBudget(userID, categoryID uint, amount float64, startDate, endDate time.Time) (*models.Budget, bool, error)
	GetUserBudgets(userID uint, month, year *int) ([]models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
}

// Summary is a financial snapshot of one user over a date range.
type Summary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	NetBalance       float64 `json:"net_balance"`
	MonthlyLimit     float64 `json:"monthly_limit"`
	LastMonthExpense float64 `json:"last_month_expense"`
}

// CategoryTotal is one row of the by-category report. CategoryID is nil for
// transactions whose category was deleted.
type CategoryTotal struct {
	CategoryID   *uint   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Icon         string  `json:"icon"`
	TotalAmount  float64 `json:"total_amount"`
}

// BudgetProgressEntry is one row of the budget-vs-spend report. Progress is
// nil when no budget is set for the category in the window.
type BudgetProgressEntry struct {
	CategoryID   uint     `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Icon         string   `json:"icon"`
	BudgetAmount float64  `json:"budget_amount"`
	TotalSpent   float64  `json:"total_spent"`
	Remaining    float64  `json:"remaining"`
	Progress     *float64 `json:"progress"`
}

// ReportServicer defines the contract for reporting aggregations.
type ReportServicer interface {
	GetSummary(userID uint, startDate, endDate time.Time) (*Summary, error)
	GetReportByCategory(userID uint, kind models.Kind, startDate, endDate *time.Time) ([]CategoryTotal, error)
	GetBudgetProgress(userID uint, startDate, endDate *time.Time) ([]BudgetProgressEntry, error)
	ExportTransactions(userID uint, startDate, endDate time.Time) ([]models.Transaction, error)
}

// ScanResult is the outcome of a receipt scan: the parsed fields plus the
// auto-inserted transaction when enough fields were recognized.
type ScanResult struct {
	Parsed      *scan.ParsedReceipt `json:"parsed"`
	Saved       bool                `json:"saved"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

// ScanServicer defines the contract for receipt scanning.
type ScanServicer interface {
	ScanReceipt(ctx context.Context, userID uint, filename string, document io.Reader) (*ScanResult, error)
}
