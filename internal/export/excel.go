// Package export renders transaction history as a spreadsheet download.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"chitieu/internal/models"
)

const sheetName = "Transactions"

var columns = []struct {
	header string
	width  float64
}{
	{"Date", 15},
	{"Description", 30},
	{"Category", 20},
	{"Kind", 10},
	{"Amount", 15},
}

// TransactionsWorkbook builds an xlsx workbook with one row per transaction.
// Transactions without a category are labeled "Uncategorized".
func TransactionsWorkbook(transactions []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, err
		}
	}

	numFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	for i, tx := range transactions {
		row := i + 2

		categoryName := "Uncategorized"
		if tx.Category != nil {
			categoryName = tx.Category.Name
		}

		values := []interface{}{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			categoryName,
			string(tx.Kind),
			tx.Amount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}

		amountCell, err := excelize.CoordinatesToCellName(len(columns), row)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, amountCell, amountCell, amountStyle); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Filename returns the attachment name for an export covering [start, end].
func Filename(start, end string) string {
	return fmt.Sprintf("transactions_%s_%s.xlsx", start, end)
}
