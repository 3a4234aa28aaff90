package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/debts/internal/application/usecase/scan"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// ScanController handles on-demand debt scans.
type ScanController struct {
	scheduler *scan.Scheduler
}

// NewScanController creates a new scan controller instance.
func NewScanController(scheduler *scan.Scheduler) *ScanController {
	return &ScanController{scheduler: scheduler}
}

// Scan handles POST /scan requests. An empty body scans the configured default window.
func (c *ScanController) Scan(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := scan.ScanTransactionsInput{UserID: userID}
	if req.Limit != nil {
		input.Limit = *req.Limit
	}
	if req.Days != nil {
		input.Days = *req.Days
	}
	if (req.Limit != nil && *req.Limit <= 0) || (req.Days != nil && *req.Days <= 0) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "limit and days must be positive",
			Code:  string(domainerror.ErrCodeInvalidScanWindow),
		})
		return
	}

	output, err := c.scheduler.ScanNow(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToScanResponse(output))
}
