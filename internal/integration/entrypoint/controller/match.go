package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// MatchController handles debt match review endpoints.
type MatchController struct {
	manualUseCase  *matchuc.CreateManualMatchUseCase
	confirmUseCase *matchuc.ConfirmMatchUseCase
	rejectUseCase  *matchuc.RejectMatchUseCase
	pendingUseCase *matchuc.ListPendingMatchesUseCase
}

// NewMatchController creates a new match controller instance.
func NewMatchController(
	manualUseCase *matchuc.CreateManualMatchUseCase,
	confirmUseCase *matchuc.ConfirmMatchUseCase,
	rejectUseCase *matchuc.RejectMatchUseCase,
	pendingUseCase *matchuc.ListPendingMatchesUseCase,
) *MatchController {
	return &MatchController{
		manualUseCase:  manualUseCase,
		confirmUseCase: confirmUseCase,
		rejectUseCase:  rejectUseCase,
		pendingUseCase: pendingUseCase,
	}
}

// Create handles POST /matches requests.
func (c *MatchController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateManualMatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingMatchFields),
		})
		return
	}

	output, err := c.manualUseCase.Execute(ctx.Request.Context(), matchuc.CreateManualMatchInput{
		UserID:        userID,
		TransactionID: uuid.MustParse(req.TransactionID),
		DebtID:        uuid.MustParse(req.DebtID),
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMatchResponse(output.Match))
}

// Confirm handles POST /matches/:id/confirm requests.
func (c *MatchController) Confirm(ctx *gin.Context) {
	c.review(ctx, c.confirmUseCase.Execute)
}

// Reject handles POST /matches/:id/reject requests.
func (c *MatchController) Reject(ctx *gin.Context) {
	c.review(ctx, c.rejectUseCase.Execute)
}

// ListPending handles GET /debts/:id/matches/pending requests.
func (c *MatchController) ListPending(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	debtID, ok := pathID(ctx, "id", "debt")
	if !ok {
		return
	}

	output, err := c.pendingUseCase.Execute(ctx.Request.Context(), matchuc.ListPendingMatchesInput{
		UserID: userID,
		DebtID: debtID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPendingMatchesResponse(output))
}

type reviewFunc func(ctx context.Context, input matchuc.ReviewMatchInput) (*matchuc.ReviewMatchOutput, error)

func (c *MatchController) review(ctx *gin.Context, execute reviewFunc) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	matchID, ok := pathID(ctx, "id", "match")
	if !ok {
		return
	}

	output, err := execute(ctx.Request.Context(), matchuc.ReviewMatchInput{
		UserID:  userID,
		MatchID: matchID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReviewMatchResponse(output))
}
