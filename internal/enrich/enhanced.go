package enrich

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/webscrape"
)

// discoveryShare is how much of the progress bar website discovery owns.
const discoveryShare = 0.25

// Enhanced is the two-phase flow: first try to discover websites for
// records that arrived without one, then run the normal source cascade
// over everything. Discovery makes the database sources' domain lookups
// viable for records that would otherwise fall straight to name search.
type Enhanced struct {
	scraper      webscrape.Client
	runner       *Runner
	tracker      *Tracker
	maxDiscovery int
}

// NewEnhanced creates the two-phase flow. maxDiscovery caps how many
// records get a discovery probe per run.
func NewEnhanced(scraper webscrape.Client, runner *Runner, tracker *Tracker, maxDiscovery int) *Enhanced {
	if maxDiscovery <= 0 {
		maxDiscovery = 50
	}
	return &Enhanced{
		scraper:      scraper,
		runner:       runner,
		tracker:      tracker,
		maxDiscovery: maxDiscovery,
	}
}

// Run executes both phases. Cancellation is honored at record boundaries
// within each phase and at the checkpoint between phases.
func (e *Enhanced) Run(ctx context.Context, records []*model.Record) model.BatchStats {
	var candidates []*model.Record
	for _, rec := range records {
		if rec.EnrichmentStatus == model.StatusSuccess {
			continue
		}
		if rec.IsEmpty(model.FieldCompanyWebsite) && !rec.IsEmpty(model.FieldCompanyName) {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) > e.maxDiscovery {
		candidates = candidates[:e.maxDiscovery]
	}

	found := 0
	for i, rec := range candidates {
		if e.tracker.ShouldStop() || ctx.Err() != nil {
			rec.EnrichmentStatus = model.StatusCancelled
			rec.EnrichmentNotes = noteCancelled
			e.tracker.Update(discoveryShare, i+1, len(candidates), 0, 0,
				fmt.Sprintf("Cancelled during website discovery after %d of %d", i, len(candidates)))
			return model.CollectStats(records)
		}

		website, err := e.scraper.Discover(ctx, rec.CompanyName)
		if err != nil {
			zap.L().Debug("enrich: website discovery came up empty",
				zap.String("company", rec.CompanyName),
				zap.Error(err),
			)
		} else {
			rec.Set(model.FieldCompanyWebsite, website)
			found++
		}

		e.tracker.Update(
			discoveryShare*float64(i+1)/float64(len(candidates)),
			i+1, len(candidates), found, 0,
			fmt.Sprintf("Discovery [%d/%d] %s", i+1, len(candidates), rec.CompanyName),
		)
	}

	if len(candidates) > 0 {
		e.tracker.Update(discoveryShare, len(candidates), len(candidates), found, 0,
			fmt.Sprintf("Website discovery done: found %d of %d", found, len(candidates)))
	}

	// Checkpoint between phases.
	if e.tracker.ShouldStop() || ctx.Err() != nil {
		return model.CollectStats(records)
	}

	e.runner.SetProgressWindow(discoveryShare, 1-discoveryShare)
	return e.runner.Run(ctx, records)
}
