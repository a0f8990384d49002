package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
)

// Runner iterates the orchestrator over a whole record set, keeping the
// tracker current and honoring cooperative cancellation at record
// boundaries. Records are processed strictly one at a time; ordering is
// what makes merge priority deterministic.
type Runner struct {
	orch    *Orchestrator
	tracker *Tracker

	// Progress window, for multi-phase flows that own only part of the
	// bar. Defaults to the full [0,1] range.
	base float64
	span float64
}

// NewRunner creates a batch runner writing progress into tracker.
func NewRunner(orch *Orchestrator, tracker *Tracker) *Runner {
	return &Runner{orch: orch, tracker: tracker, base: 0, span: 1}
}

// SetProgressWindow maps this runner's progress onto [base, base+span].
func (r *Runner) SetProgressWindow(base, span float64) {
	r.base = base
	r.span = span
}

func (r *Runner) fraction(done, total int) float64 {
	return r.base + r.span*float64(done)/float64(total)
}

// Run processes every record in order and returns the batch statistics.
// A stop request or context cancellation marks the in-flight record
// Cancelled and leaves the rest untouched. An empty record set returns
// immediately with zero counts.
func (r *Runner) Run(ctx context.Context, records []*model.Record) model.BatchStats {
	total := len(records)
	if total == 0 {
		r.tracker.Update(r.base+r.span, 0, 0, 0, 0, "No records to enrich")
		return model.BatchStats{}
	}

	successCount, errorCount := 0, 0
	for i, rec := range records {
		if r.tracker.ShouldStop() || ctx.Err() != nil {
			rec.EnrichmentStatus = model.StatusCancelled
			rec.EnrichmentNotes = noteCancelled
			r.tracker.Update(r.fraction(i+1, total), i+1, total, successCount, errorCount,
				fmt.Sprintf("Cancelled after %d of %d records", i, total))
			zap.L().Info("enrich: run cancelled",
				zap.Int("processed", i),
				zap.Int("total", total),
			)
			break
		}

		status := r.orch.EnrichRecord(ctx, rec)
		switch status {
		case model.StatusSuccess:
			successCount++
		case model.StatusFailed:
			errorCount++
		}

		label := rec.CompanyName
		if label == "" {
			label = rec.CompanyWebsite
		}
		r.tracker.Update(r.fraction(i+1, total), i+1, total, successCount, errorCount,
			fmt.Sprintf("[%d/%d] %s: %s", i+1, total, label, status))
	}

	return model.CollectStats(records)
}

// RunAI enriches the remaining records with the batch AI source. Records
// already Success are skipped untouched; records with no company identity
// are marked Skipped since there is nothing to research. The tracker
// advances once per completed batch, and a stop request between batches
// cancels the records still waiting.
func (r *Runner) RunAI(ctx context.Context, ai *source.AIBatch, records []*model.Record) model.BatchStats {
	var pending []*model.Record
	for _, rec := range records {
		switch {
		case rec.EnrichmentStatus == model.StatusSuccess:
		case !rec.Eligible():
			rec.EnrichmentStatus = model.StatusSkipped
			rec.EnrichmentNotes = noteIneligible
		default:
			pending = append(pending, rec)
		}
	}

	total := len(pending)
	if total == 0 {
		r.tracker.Update(r.base+r.span, 0, 0, 0, 0, "No records need AI enrichment")
		return model.CollectStats(records)
	}

	successCount, errorCount := 0, 0
	outcomes := ai.EnrichAll(ctx, pending, func(done, batchTotal int) bool {
		r.tracker.Update(r.fraction(done, batchTotal), done, batchTotal, successCount, errorCount,
			fmt.Sprintf("AI batch complete: %d/%d records", done, batchTotal))
		return r.tracker.ShouldStop() || ctx.Err() != nil
	})

	for i, out := range outcomes {
		rec := pending[i]
		if out.Status == "" {
			rec.EnrichmentStatus = model.StatusCancelled
			rec.EnrichmentNotes = noteCancelled
			continue
		}

		Merge(rec, out, ModeFillEmpty)
		switch out.Status {
		case source.OutcomeSuccess:
			rec.EnrichmentStatus = model.StatusSuccess
			successCount++
		case source.OutcomePartial:
			rec.EnrichmentStatus = model.StatusPartial
		case source.OutcomeFailed:
			rec.EnrichmentStatus = model.StatusFailed
			errorCount++
		}
		rec.EnrichmentNotes = out.Reason
	}

	r.tracker.Update(r.base+r.span, total, total, successCount, errorCount, "")
	return model.CollectStats(records)
}
