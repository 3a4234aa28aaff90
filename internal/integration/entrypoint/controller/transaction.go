package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/debts/internal/application/usecase/transaction"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	importUseCase *transaction.ImportTransactionsUseCase
	listUseCase   *transaction.ListTransactionsUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	importUseCase *transaction.ImportTransactionsUseCase,
	listUseCase *transaction.ListTransactionsUseCase,
) *TransactionController {
	return &TransactionController{
		importUseCase: importUseCase,
		listUseCase:   listUseCase,
	}
}

// Import handles POST /transactions/import requests.
func (c *TransactionController) Import(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.ImportTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	items := make([]transaction.ImportedTransactionInput, 0, len(req.Transactions))
	for i, item := range req.Transactions {
		date, err := dto.ParseDate(item.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Invalid date in transaction " + strconv.Itoa(i),
				Code:    string(domainerror.ErrCodeInvalidTransactionDate),
				Details: err.Error(),
			})
			return
		}
		items = append(items, transaction.ImportedTransactionInput{
			AccountID:         item.AccountID,
			Amount:            item.Amount,
			Description:       item.Description,
			MerchantName:      item.MerchantName,
			CounterpartyName:  item.CounterpartyName,
			AccountNumber:     item.AccountNumber,
			TransactionDate:   date,
			IncludeInSpending: item.IncludeInSpending,
		})
	}

	output, err := c.importUseCase.Execute(ctx.Request.Context(), transaction.ImportTransactionsInput{
		UserID:       userID,
		Transactions: items,
	})
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToImportTransactionsResponse(output))
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID:       userID,
		Search:       strings.TrimSpace(ctx.Query("search")),
		OutgoingOnly: ctx.Query("outgoing") == "true",
	}

	if v := ctx.Query("start_date"); v != "" {
		start, err := dto.ParseDate(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid start_date", Details: err.Error()})
			return
		}
		input.StartDate = &start
	}
	if v := ctx.Query("end_date"); v != "" {
		end, err := dto.ParseDate(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid end_date", Details: err.Error()})
			return
		}
		input.EndDate = &end
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleDomainError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}
