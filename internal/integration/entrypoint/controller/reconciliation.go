package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/debts/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// ReconciliationController handles canonical balance endpoints.
type ReconciliationController struct {
	balanceUseCase   *reconciliation.GetBalanceUseCase
	summaryUseCase   *reconciliation.GetSummaryUseCase
	syncUseCase      *reconciliation.SyncBalancesUseCase
	historyUseCase   *reconciliation.GetHistoryUseCase
	velocityUseCase  *reconciliation.GetVelocityUseCase
	potentialUseCase *reconciliation.FindPotentialPaymentsUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	balanceUseCase *reconciliation.GetBalanceUseCase,
	summaryUseCase *reconciliation.GetSummaryUseCase,
	syncUseCase *reconciliation.SyncBalancesUseCase,
	historyUseCase *reconciliation.GetHistoryUseCase,
	velocityUseCase *reconciliation.GetVelocityUseCase,
	potentialUseCase *reconciliation.FindPotentialPaymentsUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		balanceUseCase:   balanceUseCase,
		summaryUseCase:   summaryUseCase,
		syncUseCase:      syncUseCase,
		historyUseCase:   historyUseCase,
		velocityUseCase:  velocityUseCase,
		potentialUseCase: potentialUseCase,
	}
}

// Balance handles GET /debts/:id/balance requests.
func (c *ReconciliationController) Balance(ctx *gin.Context) {
	input, ok := debtInput(ctx)
	if !ok {
		return
	}

	output, err := c.balanceUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Balance, output.HasDrift))
}

// Summary handles GET /debts/summary requests.
func (c *ReconciliationController) Summary(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), reconciliation.GetSummaryInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDebtSummaryResponse(output))
}

// Sync handles POST /debts/sync requests.
func (c *ReconciliationController) Sync(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.syncUseCase.Execute(ctx.Request.Context(), reconciliation.SyncBalancesInput{UserID: userID})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SyncBalancesResponse{
		Updated:   output.Updated,
		Unchanged: output.Unchanged,
		Failed:    output.Failed,
	})
}

// History handles GET /debts/:id/history requests.
func (c *ReconciliationController) History(ctx *gin.Context) {
	input, ok := debtInput(ctx)
	if !ok {
		return
	}

	output, err := c.historyUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDebtHistoryResponse(output))
}

// Velocity handles GET /debts/:id/velocity requests.
func (c *ReconciliationController) Velocity(ctx *gin.Context) {
	input, ok := debtInput(ctx)
	if !ok {
		return
	}

	output, err := c.velocityUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVelocityResponse(output))
}

// PotentialPayments handles GET /debts/:id/potential-payments requests.
func (c *ReconciliationController) PotentialPayments(ctx *gin.Context) {
	input, ok := debtInput(ctx)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(ctx.Query("days"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	output, err := c.potentialUseCase.Execute(ctx.Request.Context(), reconciliation.FindPotentialPaymentsInput{
		UserID: input.UserID,
		DebtID: input.DebtID,
		Days:   days,
		Limit:  limit,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPotentialPaymentsResponse(output))
}

func debtInput(ctx *gin.Context) (reconciliation.DebtBalanceInput, bool) {
	userID, ok := currentUser(ctx)
	if !ok {
		return reconciliation.DebtBalanceInput{}, false
	}
	debtID, ok := pathID(ctx, "id", "debt")
	if !ok {
		return reconciliation.DebtBalanceInput{}, false
	}
	return reconciliation.DebtBalanceInput{UserID: userID, DebtID: debtID}, true
}
