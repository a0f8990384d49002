// Package enrich contains the enrichment core: the merge policy, the
// progress tracker, the per-record orchestrator, and the batch runner.
package enrich

import (
	"strings"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
)

// Mode selects how outcome values combine into a record.
type Mode int

const (
	// ModeFillEmpty writes a value only when the record's field is empty.
	// This is the default: sources run in priority order, so the first
	// source to fill a field wins.
	ModeFillEmpty Mode = iota
	// ModeOverwrite always writes incoming values.
	ModeOverwrite
)

// Merge folds an enrichment outcome into a record. Scalar fields follow
// the mode; headcounts and sub-record lists use presence (non-nil,
// non-empty) instead of string truthiness so a zero headcount survives.
// Attribution appends, never replaces. Failed outcomes merge nothing.
func Merge(rec *model.Record, out source.Outcome, mode Mode) {
	if out.Status == source.OutcomeFailed {
		return
	}

	for key, value := range out.Fields {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if mode == ModeFillEmpty && !rec.IsEmpty(key) {
			continue
		}
		rec.Set(key, value)
	}

	if len(out.Leadership) > 0 && (mode == ModeOverwrite || len(rec.TechLeadership) == 0) {
		rec.TechLeadership = out.Leadership
	}
	if len(out.JobListings) > 0 && (mode == ModeOverwrite || len(rec.TechJobListings) == 0) {
		rec.TechJobListings = out.JobListings
	}
	if out.EngineeringHeadcount != nil && (mode == ModeOverwrite || rec.EngineeringHeadcount == nil) {
		rec.EngineeringHeadcount = out.EngineeringHeadcount
	}
	if out.ITHeadcount != nil && (mode == ModeOverwrite || rec.ITHeadcount == nil) {
		rec.ITHeadcount = out.ITHeadcount
	}

	rec.AppendSource(out.SourceName)
}
