package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/debts/internal/domain/error"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/middleware"
)

// currentUser returns the authenticated user or writes a 401 and returns false.
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a UUID path parameter or writes a 400 and returns false.
func pathID(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// handleDomainError maps domain errors to HTTP responses.
func handleDomainError(ctx *gin.Context, err error) {
	var (
		debtErr  *domainerror.DebtError
		ruleErr  *domainerror.MatchingRuleError
		matchErr *domainerror.MatchError
		txErr    *domainerror.TransactionError
	)

	switch {
	case errors.As(err, &debtErr):
		ctx.JSON(statusForDebtError(debtErr.Code), dto.ErrorResponse{Error: debtErr.Message, Code: string(debtErr.Code)})
	case errors.As(err, &ruleErr):
		ctx.JSON(statusForRuleError(ruleErr.Code), dto.ErrorResponse{Error: ruleErr.Message, Code: string(ruleErr.Code)})
	case errors.As(err, &matchErr):
		ctx.JSON(statusForMatchError(matchErr.Code), dto.ErrorResponse{Error: matchErr.Message, Code: string(matchErr.Code)})
	case errors.As(err, &txErr):
		ctx.JSON(statusForTransactionError(txErr.Code), dto.ErrorResponse{Error: txErr.Message, Code: string(txErr.Code)})
	default:
		slog.Error("Unhandled request error",
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func statusForDebtError(code domainerror.DebtErrorCode) int {
	switch code {
	case domainerror.ErrCodeDebtNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeDebtNotAuthorized:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidDebtName,
		domainerror.ErrCodeInvalidDebtAmount,
		domainerror.ErrCodeInvalidDebtPriority,
		domainerror.ErrCodeInvalidPayment,
		domainerror.ErrCodeMissingDebtFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForRuleError(code domainerror.MatchingRuleErrorCode) int {
	switch code {
	case domainerror.ErrCodeMatchingRuleNotFound, domainerror.ErrCodeMatchingRuleNotAllowed:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidRuleType,
		domainerror.ErrCodeInvalidRuleField,
		domainerror.ErrCodeEmptyRuleValue,
		domainerror.ErrCodeInvalidRulePattern,
		domainerror.ErrCodeInvalidThreshold,
		domainerror.ErrCodeAccountRuleField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForMatchError(code domainerror.MatchErrorCode) int {
	switch code {
	case domainerror.ErrCodeMatchNotFound, domainerror.ErrCodeMatchTransactionGone:
		return http.StatusNotFound
	case domainerror.ErrCodeDuplicateMatch:
		return http.StatusConflict
	case domainerror.ErrCodeTransactionNotOutgoing,
		domainerror.ErrCodeInvalidScanWindow,
		domainerror.ErrCodeMissingMatchFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func statusForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeImportTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeEmptyImport,
		domainerror.ErrCodeMissingTransactionFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
