package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
)

// reportService computes summary, by-category, and budget-vs-spend
// aggregations. Queries are read-only; the merge logic lives here rather
// than in SQL so it stays unit-testable against an in-memory database.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetSummary produces a financial snapshot for one user over [start, end].
func (s *reportService) GetSummary(userID uint, startDate, endDate time.Time) (*Summary, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date and end date are required")
	}
	startDate = dateOnly(startDate)
	endDate = dateOnly(endDate)

	totalIncome, err := s.sumAmount(userID, models.KindIncome, startDate, endDate)
	if err != nil {
		return nil, err
	}
	totalExpense, err := s.sumAmount(userID, models.KindExpense, startDate, endDate)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var monthlyLimit float64
	if user.MonthlyLimit != nil {
		monthlyLimit = *user.MonthlyLimit
	}

	// Calendar month immediately before the month containing start. AddDate
	// handles the January wrap into December of the previous year.
	startOfMonth := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := startOfMonth.AddDate(0, -1, 0)
	lastMonthEnd := startOfMonth.AddDate(0, 0, -1)

	lastMonthExpense, err := s.sumAmount(userID, models.KindExpense, lastMonthStart, lastMonthEnd)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:      totalIncome,
		TotalExpense:     totalExpense,
		NetBalance:       totalIncome - totalExpense,
		MonthlyLimit:     monthlyLimit,
		LastMonthExpense: lastMonthExpense,
	}, nil
}

func (s *reportService) sumAmount(userID uint, kind models.Kind, startDate, endDate time.Time) (float64, error) {
	var total float64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND kind = ? AND date BETWEEN ? AND ?", userID, kind, startDate, endDate).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// GetReportByCategory groups transactions of a kind by category. Categories
// with no transactions in range do not appear; transactions whose category
// was deleted appear as a single uncategorized row.
func (s *reportService) GetReportByCategory(userID uint, kind models.Kind, startDate, endDate *time.Time) ([]CategoryTotal, error) {
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'")
	}

	base := s.db.Model(&models.Transaction{}).
		Select("transactions.category_id AS category_id, COALESCE(categories.name, 'Uncategorized') AS category_name, COALESCE(categories.icon, '') AS icon, SUM(transactions.amount) AS total_amount").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ?", userID, kind).
		Group("transactions.category_id, categories.name, categories.icon")

	if startDate != nil && endDate != nil {
		base = base.Where("transactions.date BETWEEN ? AND ?", dateOnly(*startDate), dateOnly(*endDate))
	}

	var rows []CategoryTotal
	if err := base.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []CategoryTotal{}
	}
	return rows, nil
}

// expenseTotal is a scan target for the per-category expense query.
type expenseTotal struct {
	CategoryID   *uint
	CategoryName string
	Icon         string
	TotalSpent   float64
}

// GetBudgetProgress merges two independent sparse relations — budgets and
// actual spending — into one per-category progress view. A category may
// appear in either side alone or in both; neither side is dropped. The
// window defaults to the current calendar month.
func (s *reportService) GetBudgetProgress(userID uint, startDate, endDate *time.Time) ([]BudgetProgressEntry, error) {
	var rangeStart, rangeEnd time.Time
	if startDate != nil && endDate != nil {
		rangeStart = dateOnly(*startDate)
		rangeEnd = dateOnly(*endDate)
	} else {
		now := time.Now().UTC()
		rangeStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		rangeEnd = rangeStart.AddDate(0, 1, -1)
	}

	// Query A: per-category expense totals in range.
	var expenses []expenseTotal
	if err := s.db.Model(&models.Transaction{}).
		Select("transactions.category_id AS category_id, COALESCE(categories.name, '') AS category_name, COALESCE(categories.icon, '') AS icon, SUM(transactions.amount) AS total_spent").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.kind = ? AND transactions.date BETWEEN ? AND ?",
			userID, models.KindExpense, rangeStart, rangeEnd).
		Group("transactions.category_id, categories.name, categories.icon").
		Scan(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Query B: budgets whose window lies within the requested range.
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ? AND start_date >= ? AND end_date <= ?", userID, rangeStart, rangeEnd).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Seed from budgets, then overlay actuals. Insertion order is kept so
	// the output is stable, though callers must not rely on ordering.
	progress := make(map[uint]*BudgetProgressEntry)
	var order []uint

	for _, budget := range budgets {
		if _, ok := progress[budget.CategoryID]; !ok {
			order = append(order, budget.CategoryID)
		}
		progress[budget.CategoryID] = &BudgetProgressEntry{
			CategoryID:   budget.CategoryID,
			CategoryName: budget.Category.Name,
			Icon:         budget.Category.Icon,
			BudgetAmount: budget.Amount,
			TotalSpent:   0,
		}
	}

	for _, expense := range expenses {
		if expense.CategoryID == nil {
			// Uncategorized spending has no budget to measure against.
			continue
		}
		id := *expense.CategoryID
		if entry, ok := progress[id]; ok {
			entry.TotalSpent = expense.TotalSpent
		} else {
			order = append(order, id)
			progress[id] = &BudgetProgressEntry{
				CategoryID:   id,
				CategoryName: expense.CategoryName,
				Icon:         expense.Icon,
				BudgetAmount: 0,
				TotalSpent:   expense.TotalSpent,
			}
		}
	}

	entries := make([]BudgetProgressEntry, 0, len(order))
	for _, id := range order {
		entry := progress[id]
		entry.Remaining = entry.BudgetAmount - entry.TotalSpent
		if entry.BudgetAmount > 0 {
			ratio := entry.TotalSpent / entry.BudgetAmount
			entry.Progress = &ratio
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// ExportTransactions returns the user's transactions in [start, end] with
// categories preloaded, oldest first, for spreadsheet rendering.
func (s *reportService) ExportTransactions(userID uint, startDate, endDate time.Time) ([]models.Transaction, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date and end date are required")
	}

	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dateOnly(startDate), dateOnly(endDate)).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
