package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/debts/internal/application/usecase/debt"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// DebtController handles debt endpoints.
type DebtController struct {
	listUseCase          *debt.ListDebtsUseCase
	createUseCase        *debt.CreateDebtUseCase
	recordPaymentUseCase *debt.RecordPaymentUseCase
}

// NewDebtController creates a new debt controller instance.
func NewDebtController(
	listUseCase *debt.ListDebtsUseCase,
	createUseCase *debt.CreateDebtUseCase,
	recordPaymentUseCase *debt.RecordPaymentUseCase,
) *DebtController {
	return &DebtController{
		listUseCase:          listUseCase,
		createUseCase:        createUseCase,
		recordPaymentUseCase: recordPaymentUseCase,
	}
}

// List handles GET /debts requests.
func (c *DebtController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), debt.ListDebtsInput{
		UserID:     userID,
		ActiveOnly: ctx.Query("status") == "active",
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDebtListResponse(output.Debts))
}

// Create handles POST /debts requests.
func (c *DebtController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateDebtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingDebtFields),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), debt.CreateDebtInput{
		UserID:         userID,
		Name:           req.Name,
		Creditor:       req.Creditor,
		OriginalAmount: req.OriginalAmount,
		InterestRate:   req.InterestRate,
		MinimumPayment: req.MinimumPayment,
		Priority:       req.Priority,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateDebtResponse{
		Debt:         dto.ToDebtResponse(output.Debt),
		RulesCreated: output.RulesCreated,
	})
}

// RecordPayment handles POST /debts/:id/payments requests.
func (c *DebtController) RecordPayment(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	debtID, ok := pathID(ctx, "id", "debt")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingDebtFields),
		})
		return
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil {
		date, err := dto.ParseDate(*req.PaymentDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid payment_date",
				Code:    string(domainerror.ErrCodeInvalidPayment),
				Details: err.Error(),
			})
			return
		}
		paymentDate = &date
	}

	output, err := c.recordPaymentUseCase.Execute(ctx.Request.Context(), debt.RecordPaymentInput{
		UserID:      userID,
		DebtID:      debtID,
		Principal:   req.Principal,
		Interest:    req.Interest,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RecordPaymentResponse{
		Payment: dto.ToManualPaymentResponse(output.Payment),
		Balance: dto.ToBalanceResponse(output.Balance, false),
	})
}
