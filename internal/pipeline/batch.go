package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// AnalyzeBatch analyzes addresses concurrently, bounded by the configured
// request limit. Results keep the input order. One failed address never
// aborts its siblings.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, addresses []string) ([]model.AnalysisResult, model.BatchSummary) {
	results := make([]model.AnalysisResult, len(addresses))
	if len(addresses) == 0 {
		return results, model.BatchSummary{}
	}

	log := zap.L().With(zap.String("component", "pipeline"), zap.Int("requested", len(addresses)))
	log.Info("batch analysis started")
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	limit := p.cfg.Batch.MaxConcurrentRequests
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, address := range addresses {
		g.Go(func() error {
			results[i] = p.Analyze(gctx, address)
			return nil // failures are recorded in the item's result
		})
	}
	_ = g.Wait() // the goroutines never return errors

	summary := model.BatchSummary{
		Requested: len(addresses),
		Items:     make([]model.BatchItem, 0, len(addresses)),
	}
	for _, r := range results {
		summary.Items = append(summary.Items, model.BatchItem{
			Address:    r.Property.Address,
			AnalysisID: r.AnalysisID,
			Success:    r.Success,
			Error:      r.Error,
		})
		if r.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	log.Info("batch analysis complete",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, summary
}
