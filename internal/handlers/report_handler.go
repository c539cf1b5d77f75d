package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/export"
	"chitieu/internal/logger"
	"chitieu/internal/models"
	"chitieu/internal/services"
)

// ReportHandler handles reporting and export requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary handles the financial summary report.
// @Summary     Get summary
// @Description Get income, expense and balance totals for a date range, plus
// @Description the monthly limit and the previous calendar month's spend
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string true "Start date (YYYY-MM-DD)"
// @Param       end_date   query string true "End date (YYYY-MM-DD)"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDate(c.Query("start_date"), "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDate(c.Query("end_date"), "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetSummary(userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetReportByCategory handles the per-category totals report.
// @Summary     Get totals by category
// @Description Get transaction totals grouped by category for one kind,
// @Description optionally restricted to a date range
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       kind       query string false "Kind (expense/income), defaults to expense"
// @Param       start_date query string false "Start date (YYYY-MM-DD)"
// @Param       end_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array} services.CategoryTotal "Totals by category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/by-category [get]
func (h *ReportHandler) GetReportByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	kind := models.KindExpense
	if v := c.Query("kind"); v != "" {
		kind = models.Kind(v)
	}
	if !kind.Valid() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'expense' or 'income'"))
		return
	}

	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.GetReportByCategory(userID, kind, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": totals})
}

// GetBudgetProgress handles the budget-vs-spend report.
// @Summary     Get budget progress
// @Description Get budgeted amounts merged with actual expense totals per
// @Description category; defaults to the current calendar month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string false "Start date (YYYY-MM-DD)"
// @Param       end_date   query string false "End date (YYYY-MM-DD)"
// @Success     200 {array} services.BudgetProgressEntry "Budget progress"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/budget-progress [get]
func (h *ReportHandler) GetBudgetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if (startDate == nil) != (endDate == nil) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date must be provided together"))
		return
	}

	entries, err := h.reportService.GetBudgetProgress(userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": entries})
}

// ExportTransactions handles exporting transactions as an Excel workbook.
// @Summary     Export transactions
// @Description Download the user's transactions for a date range as an .xlsx file
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       start_date query string true "Start date (YYYY-MM-DD)"
// @Param       end_date   query string true "End date (YYYY-MM-DD)"
// @Success     200 {file} file "Excel workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/export [get]
func (h *ReportHandler) ExportTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	startDate, err := parseDate(c.Query("start_date"), "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDate(c.Query("end_date"), "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.reportService.ExportTransactions(userID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	workbook, err := export.TransactionsWorkbook(transactions)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			logger.Get().Warnw("Failed to close workbook", "error", err)
		}
	}()

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(startDate.Format(dateLayout), endDate.Format(dateLayout))+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		logger.Get().Errorw("Failed to stream workbook", "error", err)
	}
}
