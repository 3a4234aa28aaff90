// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScanWatermarkStore remembers, per user, the import time of the newest
// transaction an automatic scan has processed.
type ScanWatermarkStore interface {
	// Get returns the watermark of a user, or nil when none was recorded.
	Get(ctx context.Context, userID uuid.UUID) (*time.Time, error)

	// Advance moves the watermark forward to at. Earlier values are ignored.
	Advance(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// ScanStats are the counts a single scan pass produced.
type ScanStats struct {
	Processed     int
	Candidates    int
	Created       int
	AutoConfirmed int
	Pending       int
	Duplicates    int
	Failed        int
}

// ScanMetrics records scan and review activity.
type ScanMetrics interface {
	// ObserveScan records the outcome of a scan pass.
	ObserveScan(mode string, stats ScanStats, duration time.Duration)

	// ObserveReview records a human review decision on a match.
	ObserveReview(status string)

	// ObserveBalanceSync records the outcome of a balance sync.
	ObserveBalanceSync(updated, unchanged, failed int)
}
