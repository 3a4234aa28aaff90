// Package router sets up the HTTP routing for the application.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/debts/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	debtController           *controller.DebtController
	reconciliationController *controller.ReconciliationController
	matchingRuleController   *controller.MatchingRuleController
	matchController          *controller.MatchController
	scanController           *controller.ScanController
	transactionController    *controller.TransactionController
	scanRateLimiter          *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
	metricsHandler           http.Handler
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	debtController *controller.DebtController,
	reconciliationController *controller.ReconciliationController,
	matchingRuleController *controller.MatchingRuleController,
	matchController *controller.MatchController,
	scanController *controller.ScanController,
	transactionController *controller.TransactionController,
	scanRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		healthController:         healthController,
		debtController:           debtController,
		reconciliationController: reconciliationController,
		matchingRuleController:   matchingRuleController,
		matchController:          matchController,
		scanController:           scanController,
		transactionController:    transactionController,
		scanRateLimiter:          scanRateLimiter,
		authMiddleware:           authMiddleware,
		metricsHandler:           metricsHandler,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes. Every route requires authentication.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		debts := v1.Group("/debts")
		{
			debts.GET("", r.debtController.List)
			debts.POST("", r.debtController.Create)
			debts.GET("/summary", r.reconciliationController.Summary)
			debts.POST("/sync", r.reconciliationController.Sync)
			debts.GET("/:id/balance", r.reconciliationController.Balance)
			debts.GET("/:id/history", r.reconciliationController.History)
			debts.GET("/:id/velocity", r.reconciliationController.Velocity)
			debts.GET("/:id/potential-payments", r.reconciliationController.PotentialPayments)
			debts.GET("/:id/matches/pending", r.matchController.ListPending)
			debts.POST("/:id/payments", r.debtController.RecordPayment)
			debts.GET("/:id/rules", r.matchingRuleController.List)
			debts.POST("/:id/rules", r.matchingRuleController.Create)
		}

		rules := v1.Group("/matching-rules")
		{
			rules.PATCH("/:id/toggle", r.matchingRuleController.Toggle)
			rules.DELETE("/:id", r.matchingRuleController.Delete)
		}

		matches := v1.Group("/matches")
		{
			matches.POST("", r.matchController.Create)
			matches.POST("/:id/confirm", r.matchController.Confirm)
			matches.POST("/:id/reject", r.matchController.Reject)
		}

		v1.POST("/scan", r.scanRateLimiter.Middleware(), r.scanController.Scan)

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", r.transactionController.List)
			transactions.POST("/import", r.transactionController.Import)
		}
	}
}
