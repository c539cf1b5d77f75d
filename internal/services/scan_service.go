package services

import (
	"context"
	"io"
	"strings"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/models"
	"chitieu/internal/scan"
)

// scanService recognizes receipt documents and auto-inserts the resulting
// expense transaction when enough fields were extracted.
type scanService struct {
	db         *gorm.DB
	recognizer scan.Recognizer
	txService  TransactionServicer
}

// NewScanService creates a new ScanServicer.
func NewScanService(db *gorm.DB, recognizer scan.Recognizer, txService TransactionServicer) ScanServicer {
	return &scanService{db: db, recognizer: recognizer, txService: txService}
}

// ScanReceipt sends the document to the recognition vendor. When both amount
// and date come back parseable, an expense transaction is inserted under a
// category matched by name; otherwise the parsed fields are returned as-is
// for the client to complete manually.
func (s *scanService) ScanReceipt(ctx context.Context, userID uint, filename string, document io.Reader) (*ScanResult, error) {
	if s.recognizer == nil {
		return nil, apperrors.ErrScanNotConfigured
	}

	parsed, err := s.recognizer.Recognize(ctx, filename, document)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrScanFailed, err)
	}

	result := &ScanResult{Parsed: parsed}

	date, hasDate := parsed.ParsedDate()
	if parsed.Amount == nil || *parsed.Amount <= 0 || !hasDate {
		return result, nil
	}

	description := parsed.Vendor
	if description == "" {
		description = "Scanned transaction"
	}

	transaction, err := s.txService.CreateTransaction(
		userID, s.matchCategory(userID, parsed), models.KindExpense, *parsed.Amount, description, date,
	)
	if err != nil {
		// The scan itself succeeded; surface the parsed fields instead of
		// failing the request.
		logger.Get().Warnw("failed to save scanned transaction", "user_id", userID, "error", err)
		return result, nil
	}

	result.Saved = true
	result.Transaction = transaction
	return result, nil
}

// matchCategory finds the user's category whose name matches the recognized
// category or vendor, case-insensitively. No match means uncategorized.
func (s *scanService) matchCategory(userID uint, parsed *scan.ParsedReceipt) *uint {
	for _, candidate := range []string{parsed.Category, parsed.Vendor} {
		if candidate == "" {
			continue
		}
		var category models.Category
		err := s.db.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(candidate)).
			First(&category).Error
		if err == nil {
			return &category.ID
		}
	}
	return nil
}
