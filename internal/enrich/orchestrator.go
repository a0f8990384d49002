package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
)

// Notes the pipeline writes for the two record-level failure modes.
const (
	noteIneligible = "Missing both company name and website"
	noteAllFailed  = "All enrichment attempts failed"
	noteCancelled  = "Cancelled by user"
)

// Orchestrator drives one record through the configured sources in
// priority order, merging each success fill-empty-only and stopping early
// once every required field is populated.
type Orchestrator struct {
	sources  []source.Source
	required []string
}

// NewOrchestrator creates an orchestrator over an ordered source chain.
func NewOrchestrator(sources []source.Source, required []string) *Orchestrator {
	return &Orchestrator{sources: sources, required: required}
}

// EnrichRecord runs the full cascade for one record, mutating its fields
// and enrichment metadata, and returns the terminal status.
//
// Records already marked Success are left byte-for-byte untouched; that
// short-circuit is what makes re-running a batch idempotent. A panicking
// source fails this record only, never the batch.
func (o *Orchestrator) EnrichRecord(ctx context.Context, rec *model.Record) (status model.Status) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("enrich: panic while processing record",
				zap.String("company", rec.CompanyName),
				zap.Any("panic", r),
			)
			rec.EnrichmentStatus = model.StatusFailed
			rec.EnrichmentNotes = fmt.Sprintf("unexpected error: %v", r)
			status = model.StatusFailed
		}
	}()

	if rec.EnrichmentStatus == model.StatusSuccess {
		return model.StatusSuccess
	}

	if !rec.Eligible() {
		rec.EnrichmentStatus = model.StatusFailed
		rec.EnrichmentNotes = noteIneligible
		return model.StatusFailed
	}

	succeeded := false
	for _, src := range o.sources {
		// The scraper is a last resort: only worth a fetch when there is
		// a website to hit and the databases left gaps.
		if src.Name() == source.ScraperName {
			if rec.IsEmpty(model.FieldCompanyWebsite) || !rec.MissingAny(o.required) {
				continue
			}
		}

		out := src.Attempt(ctx, rec)
		if out.Status == source.OutcomeFailed {
			zap.L().Debug("enrich: source attempt failed",
				zap.String("source", src.Name()),
				zap.String("company", rec.CompanyName),
				zap.String("reason", out.Reason),
			)
			continue
		}

		Merge(rec, out, ModeFillEmpty)
		succeeded = true

		if !rec.MissingAny(o.required) {
			break
		}
	}

	if !succeeded {
		rec.EnrichmentStatus = model.StatusFailed
		rec.EnrichmentNotes = noteAllFailed
		return model.StatusFailed
	}

	rec.EnrichmentStatus = model.StatusSuccess
	notes := "Enriched via " + rec.EnrichmentSource
	if missing := rec.MissingFields(o.required); len(missing) > 0 {
		notes += "; still missing: " + strings.Join(missing, ", ")
	}
	rec.EnrichmentNotes = notes
	return model.StatusSuccess
}
