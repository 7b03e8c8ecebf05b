package jobs

import (
	"context"
	"fmt"
	"hosting-dashboard/internal/ledger"
	"hosting-dashboard/internal/metrics"
	"log/slog"
	"time"
)

// LedgerSweepJob drops expired claims from the code ledger and publishes
// the number still held.
type LedgerSweepJob struct {
	ledger     ledger.Ledger
	ledgerType string
	interval   time.Duration
	logger     *slog.Logger
}

func NewLedgerSweepJob(codeLedger ledger.Ledger, ledgerType string, interval time.Duration, logger *slog.Logger) *LedgerSweepJob {
	return &LedgerSweepJob{
		ledger:     codeLedger,
		ledgerType: ledgerType,
		interval:   interval,
		logger:     logger,
	}
}

func (j *LedgerSweepJob) Name() string {
	return "ledger_sweep"
}

func (j *LedgerSweepJob) Interval() time.Duration {
	return j.interval
}

func (j *LedgerSweepJob) Run(ctx context.Context) error {
	if j.interval <= 0 {
		j.logger.Error("ledger sweep job failed: ticker interval must not be zero")
		return fmt.Errorf("non-positive ticker interval: %s", j.interval)
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Debug("ledger sweep job canceled")
			return ctx.Err()
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *LedgerSweepJob) sweep(ctx context.Context) {
	size := j.ledger.Size(ctx)
	metrics.LedgerItems.WithLabelValues(j.ledgerType).Set(float64(size))
	j.logger.Debug("ledger swept", "ledger", j.ledgerType, "claims", size)
}
