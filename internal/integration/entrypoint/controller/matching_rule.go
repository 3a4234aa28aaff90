package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// MatchingRuleController handles matching rule endpoints.
type MatchingRuleController struct {
	listUseCase   *matchingrule.ListMatchingRulesUseCase
	createUseCase *matchingrule.CreateMatchingRuleUseCase
	toggleUseCase *matchingrule.ToggleMatchingRuleUseCase
	deleteUseCase *matchingrule.DeleteMatchingRuleUseCase
}

// NewMatchingRuleController creates a new matching rule controller instance.
func NewMatchingRuleController(
	listUseCase *matchingrule.ListMatchingRulesUseCase,
	createUseCase *matchingrule.CreateMatchingRuleUseCase,
	toggleUseCase *matchingrule.ToggleMatchingRuleUseCase,
	deleteUseCase *matchingrule.DeleteMatchingRuleUseCase,
) *MatchingRuleController {
	return &MatchingRuleController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		toggleUseCase: toggleUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /debts/:id/rules requests.
func (c *MatchingRuleController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	debtID, ok := pathID(ctx, "id", "debt")
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), matchingrule.ListMatchingRulesInput{
		UserID: userID,
		DebtID: debtID,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchingRuleListResponse(output.Rules, output.Bootstrapped))
}

// Create handles POST /debts/:id/rules requests.
func (c *MatchingRuleController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	debtID, ok := pathID(ctx, "id", "debt")
	if !ok {
		return
	}

	var req dto.CreateMatchingRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyRuleValue),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), matchingrule.CreateMatchingRuleInput{
		UserID:              userID,
		DebtID:              debtID,
		Type:                req.Type,
		Field:               req.Field,
		Value:               req.Value,
		ConfidenceThreshold: req.ConfidenceThreshold,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMatchingRuleResponse(output.Rule))
}

// Toggle handles PATCH /matching-rules/:id/toggle requests.
func (c *MatchingRuleController) Toggle(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	ruleID, ok := pathID(ctx, "id", "rule")
	if !ok {
		return
	}

	var req dto.ToggleMatchingRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.toggleUseCase.Execute(ctx.Request.Context(), matchingrule.ToggleMatchingRuleInput{
		UserID:  userID,
		RuleID:  ruleID,
		Enabled: req.Enabled,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMatchingRuleResponse(output.Rule))
}

// Delete handles DELETE /matching-rules/:id requests.
func (c *MatchingRuleController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	ruleID, ok := pathID(ctx, "id", "rule")
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), matchingrule.DeleteMatchingRuleInput{
		UserID: userID,
		RuleID: ruleID,
	}); err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
