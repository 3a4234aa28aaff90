// Package scan feeds imported transactions through debt matching.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/debts/internal/application/adapter"
	matchuc "github.com/finance-tracker/debts/internal/application/usecase/debtmatch"
	"github.com/finance-tracker/debts/internal/application/usecase/ledger"
	matchingrule "github.com/finance-tracker/debts/internal/application/usecase/matching_rule"
	"github.com/finance-tracker/debts/internal/domain/debtmatch"
	"github.com/finance-tracker/debts/internal/domain/entity"
	domainerror "github.com/finance-tracker/debts/internal/domain/error"
)

// Mode tells whether a pass was requested by the user or fired by the scheduler.
type Mode string

const (
	ModeManual    Mode = "manual"
	ModeAutomatic Mode = "automatic"
)

// WindowKind selects the default scan window.
type WindowKind string

const (
	WindowCount WindowKind = "count"
	WindowDays  WindowKind = "days"
)

// Config holds the scan window defaults.
type Config struct {
	DefaultLimit int        // Latest N transactions
	LookbackDays int        // Transactions of the last N days
	DefaultKind  WindowKind // Window used when a request names none
}

// DefaultConfig returns the default scan configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 100,
		LookbackDays: 30,
		DefaultKind:  WindowCount,
	}
}

// ScanTransactionsInput represents the input for a scan pass.
// At most one of Limit and Days may be set; with neither, the configured default applies.
type ScanTransactionsInput struct {
	UserID uuid.UUID
	Limit  int
	Days   int
	Mode   Mode
}

// ScanTransactionsOutput represents the outcome of a scan pass.
type ScanTransactionsOutput struct {
	adapter.ScanStats
	Watermark *time.Time // Set when an automatic pass advanced the watermark
}

// ScanTransactionsUseCase runs transactions through the match generator and records the candidates.
type ScanTransactionsUseCase struct {
	debtRepo        adapter.DebtRepository
	ruleRepo        adapter.MatchingRuleRepository
	transactionRepo adapter.TransactionRepository
	bootstrapper    *matchingrule.RuleBootstrapper
	generator       *debtmatch.Generator
	recorder        *matchuc.RecordMatchUseCase
	watermarks      adapter.ScanWatermarkStore
	metrics         adapter.ScanMetrics
	config          Config
}

// NewScanTransactionsUseCase creates a new ScanTransactionsUseCase instance.
func NewScanTransactionsUseCase(
	debtRepo adapter.DebtRepository,
	ruleRepo adapter.MatchingRuleRepository,
	transactionRepo adapter.TransactionRepository,
	bootstrapper *matchingrule.RuleBootstrapper,
	generator *debtmatch.Generator,
	recorder *matchuc.RecordMatchUseCase,
	watermarks adapter.ScanWatermarkStore,
	metrics adapter.ScanMetrics,
	config Config,
) *ScanTransactionsUseCase {
	return &ScanTransactionsUseCase{
		debtRepo:        debtRepo,
		ruleRepo:        ruleRepo,
		transactionRepo: transactionRepo,
		bootstrapper:    bootstrapper,
		generator:       generator,
		recorder:        recorder,
		watermarks:      watermarks,
		metrics:         metrics,
		config:          config,
	}
}

// Execute runs one pass. A failure on one transaction or candidate is logged
// and counted; the pass carries on with the rest. Automatic passes walk every
// transaction imported after the user's watermark, a window-sized page at a
// time, and move it forward when every record succeeded.
func (uc *ScanTransactionsUseCase) Execute(ctx context.Context, input ScanTransactionsInput) (*ScanTransactionsOutput, error) {
	window, err := uc.window(input)
	if err != nil {
		return nil, err
	}
	mode := input.Mode
	if mode == "" {
		mode = ModeManual
	}

	start := time.Now()
	logger := slog.With(
		"user_id", input.UserID,
		"mode", mode,
		"limit", window.Limit,
	)

	output := &ScanTransactionsOutput{}

	debts, err := uc.debtRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	if len(debts) == 0 {
		logger.Debug("No active debts, skipping scan")
		uc.metrics.ObserveScan(string(mode), output.ScanStats, time.Since(start))
		return output, nil
	}

	for _, debt := range debts {
		if _, err := uc.bootstrapper.Ensure(ctx, debt); err != nil {
			logger.Warn("Default rule bootstrap failed", "debt_id", debt.ID, "error", err)
		}
	}

	rules, err := uc.ruleRepo.FindEnabledByDebts(ctx, ledger.DebtIDs(debts))
	if err != nil {
		return nil, fmt.Errorf("failed to load matching rules: %w", err)
	}

	if mode == ModeAutomatic {
		if err := uc.scanImports(ctx, logger, input.UserID, window, debts, rules, output); err != nil {
			return nil, err
		}
	} else {
		transactions, err := uc.transactionRepo.FindForScan(ctx, input.UserID, window, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions: %w", err)
		}
		uc.process(ctx, logger, transactions, debts, rules, &output.ScanStats)
	}

	elapsed := time.Since(start)
	uc.metrics.ObserveScan(string(mode), output.ScanStats, elapsed)

	logger.Info("Debt scan completed",
		"processed", output.Processed,
		"candidates", output.Candidates,
		"created", output.Created,
		"auto_confirmed", output.AutoConfirmed,
		"pending", output.Pending,
		"duplicates", output.Duplicates,
		"failed", output.Failed,
		"duration", elapsed,
	)

	return output, nil
}

// scanImports pages through the transactions imported after the watermark,
// oldest first, until a short page comes back. The watermark only moves when
// every page was read and every record succeeded.
func (uc *ScanTransactionsUseCase) scanImports(
	ctx context.Context,
	logger *slog.Logger,
	userID uuid.UUID,
	window entity.TransactionWindow,
	debts []*entity.Debt,
	rules []*entity.MatchingRule,
	output *ScanTransactionsOutput,
) error {
	cursor := &entity.ScanCursor{}
	if uc.watermarks != nil {
		watermark, err := uc.watermarks.Get(ctx, userID)
		if err != nil {
			logger.Warn("Failed to read scan watermark, scanning from the oldest import", "error", err)
		} else if watermark != nil {
			cursor.CreatedAt = *watermark
		}
	}

	var newest time.Time
	drained := false
	for !drained {
		page, err := uc.transactionRepo.FindForScan(ctx, userID, window, cursor)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		uc.process(ctx, logger, page, debts, rules, &output.ScanStats)

		drained = window.Limit <= 0 || len(page) < window.Limit
		if len(page) > 0 {
			last := page[len(page)-1]
			newest = last.CreatedAt
			cursor = &entity.ScanCursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}
		if output.Failed > 0 || ctx.Err() != nil {
			break
		}
	}

	if uc.watermarks == nil || !drained || output.Failed > 0 || newest.IsZero() {
		return nil
	}
	if err := uc.watermarks.Advance(ctx, userID, newest); err != nil {
		logger.Warn("Failed to advance scan watermark", "error", err)
		return nil
	}
	output.Watermark = &newest
	return nil
}

func (uc *ScanTransactionsUseCase) process(
	ctx context.Context,
	logger *slog.Logger,
	transactions []*entity.Transaction,
	debts []*entity.Debt,
	rules []*entity.MatchingRule,
	stats *adapter.ScanStats,
) {
	for _, tx := range transactions {
		stats.Processed++
		for _, candidate := range uc.generator.FindMatches(tx, debts, rules) {
			stats.Candidates++
			uc.record(ctx, logger, candidate, stats)
		}
	}
}

func (uc *ScanTransactionsUseCase) record(ctx context.Context, logger *slog.Logger, candidate entity.MatchCandidate, stats *adapter.ScanStats) {
	result, err := uc.recorder.Execute(ctx, matchuc.RecordMatchInput{Candidate: candidate})
	if err != nil {
		stats.Failed++
		logger.Error("Failed to record debt match",
			"transaction_id", candidate.TransactionID,
			"debt_id", candidate.DebtID,
			"error", err,
		)
		if result == nil || !result.Created {
			return
		}
	}

	switch {
	case result.Duplicate:
		stats.Duplicates++
	case result.Created && result.AutoConfirmed:
		stats.Created++
		stats.AutoConfirmed++
	case result.Created:
		stats.Created++
		stats.Pending++
	}
}

// window resolves the requested window against the configured defaults.
func (uc *ScanTransactionsUseCase) window(input ScanTransactionsInput) (entity.TransactionWindow, error) {
	if input.Limit < 0 || input.Days < 0 || (input.Limit > 0 && input.Days > 0) {
		return entity.TransactionWindow{}, domainerror.NewMatchError(
			domainerror.ErrCodeInvalidScanWindow,
			"provide either a positive limit or a positive number of days",
			domainerror.ErrInvalidScanWindow,
		)
	}

	limit, days := input.Limit, input.Days
	if limit == 0 && days == 0 {
		if uc.config.DefaultKind == WindowDays {
			days = uc.config.LookbackDays
		} else {
			limit = uc.config.DefaultLimit
		}
	}

	if limit > 0 {
		return entity.TransactionWindow{Limit: limit}, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return entity.TransactionWindow{Since: &since}, nil
}
