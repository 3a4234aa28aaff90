// Package dependency provides dependency injection for the application.
package dependency

import (
	"gorm.io/gorm"

	"github.com/finance-tracker/debts/config"
	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/application/usecase/debt"
	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	"github.com/finance-tracker/debts/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/debts/internal/application/usecase/scan"
	"github.com/finance-tracker/debts/internal/application/usecase/transaction"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/valueobject"
	"github.com/finance-tracker/debts/internal/infra/server/router"
	"github.com/finance-tracker/debts/internal/integration/adapters"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/debts/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/debts/internal/integration/metrics"
	"github.com/finance-tracker/debts/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config    *config.Config
	DB        *gorm.DB
	Router    *router.Router
	Scheduler *scan.Scheduler
	Metrics   *metrics.PrometheusMetrics
}

// Options carries the infrastructure the injector does not build itself.
type Options struct {
	Watermarks  adapter.ScanWatermarkStore
	Metrics     *metrics.PrometheusMetrics
	CacheHealth func() bool // Nil when no Redis is configured
}

// MatchingConfig converts the loaded thresholds into the domain configuration.
func MatchingConfig(cfg *config.Config) valueobject.MatchingConfig {
	matching := valueobject.DefaultMatchingConfig()
	if cfg.Matching.AutoConfirmThreshold > 0 {
		matching.AutoConfirmThreshold = cfg.Matching.AutoConfirmThreshold
	}
	if cfg.Matching.DefaultRuleThreshold > 0 {
		matching.DefaultRuleThreshold = cfg.Matching.DefaultRuleThreshold
	}
	return matching
}

// ScanConfig converts the loaded scan window settings into the use case configuration.
func ScanConfig(cfg *config.Config) scan.Config {
	scanCfg := scan.DefaultConfig()
	if cfg.Scan.DefaultLimit > 0 {
		scanCfg.DefaultLimit = cfg.Scan.DefaultLimit
	}
	if cfg.Scan.LookbackDays > 0 {
		scanCfg.LookbackDays = cfg.Scan.LookbackDays
	}
	if cfg.Scan.Mode == string(scan.WindowDays) {
		scanCfg.DefaultKind = scan.WindowDays
	}
	return scanCfg
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) *Injector {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewPrometheusMetrics()
	}
	matchingCfg := MatchingConfig(cfg)

	// Create repositories
	debtRepo := persistence.NewDebtRepository(db)
	paymentRepo := persistence.NewDebtPaymentRepository(db)
	historyRepo := persistence.NewPaymentHistoryRepository(db)
	ruleRepo := persistence.NewMatchingRuleRepository(db)
	matchRepo := persistence.NewDebtMatchRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)
	generator := debtmatch.NewGenerator(debtmatch.NewEvaluator())
	loader := ledger.NewLoader(matchRepo, transactionRepo, historyRepo, paymentRepo)
	applier := matchuc.NewPaymentApplier(debtRepo, transactionRepo, historyRepo, loader)
	bootstrapper := matchingrule.NewRuleBootstrapper(ruleRepo, matchingCfg)

	// Create match use cases
	recordMatchUseCase := matchuc.NewRecordMatchUseCase(matchRepo, applier, matchingCfg)
	confirmMatchUseCase := matchuc.NewConfirmMatchUseCase(matchRepo, debtRepo, applier, opts.Metrics)
	rejectMatchUseCase := matchuc.NewRejectMatchUseCase(matchRepo, debtRepo, opts.Metrics)
	manualMatchUseCase := matchuc.NewCreateManualMatchUseCase(matchRepo, debtRepo, transactionRepo, applier)
	listPendingUseCase := matchuc.NewListPendingMatchesUseCase(matchRepo, debtRepo, transactionRepo)

	// Create scan use case and scheduler
	scanUseCase := scan.NewScanTransactionsUseCase(
		debtRepo,
		ruleRepo,
		transactionRepo,
		bootstrapper,
		generator,
		recordMatchUseCase,
		opts.Watermarks,
		opts.Metrics,
		ScanConfig(cfg),
	)
	scheduler := scan.NewScheduler(scanUseCase, cfg.Scan.Debounce)

	// Create debt use cases
	listDebtsUseCase := debt.NewListDebtsUseCase(debtRepo)
	createDebtUseCase := debt.NewCreateDebtUseCase(debtRepo, bootstrapper)
	recordPaymentUseCase := debt.NewRecordPaymentUseCase(debtRepo, paymentRepo, loader)

	// Create reconciliation use cases
	balanceUseCase := reconciliation.NewGetBalanceUseCase(debtRepo, loader, matchingCfg)
	summaryUseCase := reconciliation.NewGetSummaryUseCase(debtRepo, loader, matchingCfg)
	syncUseCase := reconciliation.NewSyncBalancesUseCase(debtRepo, loader, matchingCfg, opts.Metrics)
	historyUseCase := reconciliation.NewGetHistoryUseCase(debtRepo, historyRepo, paymentRepo)
	velocityUseCase := reconciliation.NewGetVelocityUseCase(debtRepo, loader)
	potentialUseCase := reconciliation.NewFindPotentialPaymentsUseCase(debtRepo, ruleRepo, matchRepo, transactionRepo, generator, matchingCfg)

	// Create matching rule use cases
	listRulesUseCase := matchingrule.NewListMatchingRulesUseCase(ruleRepo, debtRepo, bootstrapper)
	createRuleUseCase := matchingrule.NewCreateMatchingRuleUseCase(ruleRepo, debtRepo, matchingCfg)
	toggleRuleUseCase := matchingrule.NewToggleMatchingRuleUseCase(ruleRepo, debtRepo)
	deleteRuleUseCase := matchingrule.NewDeleteMatchingRuleUseCase(ruleRepo, debtRepo)

	// Create transaction use cases
	importTransactionsUseCase := transaction.NewImportTransactionsUseCase(transactionRepo, scheduler)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, opts.CacheHealth)

	debtController := controller.NewDebtController(listDebtsUseCase, createDebtUseCase, recordPaymentUseCase)
	reconciliationController := controller.NewReconciliationController(
		balanceUseCase,
		summaryUseCase,
		syncUseCase,
		historyUseCase,
		velocityUseCase,
		potentialUseCase,
	)
	matchingRuleController := controller.NewMatchingRuleController(
		listRulesUseCase,
		createRuleUseCase,
		toggleRuleUseCase,
		deleteRuleUseCase,
	)
	matchController := controller.NewMatchController(
		manualMatchUseCase,
		confirmMatchUseCase,
		rejectMatchUseCase,
		listPendingUseCase,
	)
	scanController := controller.NewScanController(scheduler)
	transactionController := controller.NewTransactionController(importTransactionsUseCase, listTransactionsUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var scanRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		scanRateLimiter = middleware.NewRateLimiterWithConfig(1000, cfg.Scan.RateLimitWindow)
	} else {
		scanRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Scan.RateLimit, cfg.Scan.RateLimitWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		debtController,
		reconciliationController,
		matchingRuleController,
		matchController,
		scanController,
		transactionController,
		scanRateLimiter,
		authMiddleware,
		opts.Metrics.Handler(),
	)

	return &Injector{
		Config:    cfg,
		DB:        db,
		Router:    r,
		Scheduler: scheduler,
		Metrics:   opts.Metrics,
	}
}
