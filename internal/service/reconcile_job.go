package service

import (
	"context"
	"fmt"

	"erp-pdv-api/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReconcileJob periodically compares every product's stock_qty with the sum
// of its ledger and logs any drift. It never repairs anything.
type ReconcileJob struct {
	reports   ReportService
	spec      string
	scheduler *cron.Cron
}

func NewReconcileJob(reports ReportService, spec string) *ReconcileJob {
	return &ReconcileJob{
		reports:   reports,
		spec:      spec,
		scheduler: cron.New(),
	}
}

// Start schedules the job. An empty spec leaves it disabled.
func (j *ReconcileJob) Start() error {
	if j.spec == "" {
		logger.Info("Ledger reconciliation disabled")
		return nil
	}
	if _, err := j.scheduler.AddFunc(j.spec, func() {
		j.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", j.spec, err)
	}
	j.scheduler.Start()
	logger.Info("Ledger reconciliation scheduled with spec '%s'", j.spec)
	return nil
}

// Run performs one check and returns the number of drifted products.
func (j *ReconcileJob) Run(ctx context.Context) int {
	mismatches, err := j.reports.LedgerCheck(ctx)
	if err != nil {
		logger.Error("Ledger reconciliation failed", err)
		return 0
	}
	for _, m := range mismatches {
		logger.Error(fmt.Sprintf("Ledger drift on product #%d '%s': stock_qty=%d ledger=%d",
			m.ProductID, m.Name, m.StockQty, m.LedgerSum), nil)
	}
	if len(mismatches) == 0 {
		logger.Info("Ledger reconciliation: all products consistent")
	}
	return len(mismatches)
}

// Stop waits for a running check to finish or ctx to expire.
func (j *ReconcileJob) Stop(ctx context.Context) error {
	done := j.scheduler.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
