package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/services"
)

// 10 MB, matching the Mindee upload limit.
const maxReceiptSize = 10 << 20

// ScanHandler handles receipt scanning requests.
type ScanHandler struct {
	scanService services.ScanServicer
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(scanService services.ScanServicer) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// ScanReceipt handles uploading a receipt image for OCR extraction.
// @Summary     Scan a receipt
// @Description Upload a receipt image; extracted fields are returned and, when
// @Description an amount and date were recognized, a transaction is recorded
// @Tags        scan
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       document formData file true "Receipt image (JPEG, PNG or PDF)"
// @Success     200 {object} services.ScanResult "Scan result"
// @Failure     400 {object} ErrorResponse "Invalid upload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Recognition provider error"
// @Failure     503 {object} ErrorResponse "Scanning not configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scan [post]
func (h *ScanHandler) ScanReceipt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "a 'document' file is required"))
		return
	}
	if fileHeader.Size > maxReceiptSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "document exceeds the 10 MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Warnw("Failed to close uploaded document", "error", err)
		}
	}()

	result, err := h.scanService.ScanReceipt(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
