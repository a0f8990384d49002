// Package source defines the enrichment source capability interface and the
// adapters wrapping each external data provider.
package source

import (
	"context"
	"sync"

	"github.com/sells-group/enrich-cli/internal/model"
)

// OutcomeStatus is the result classification of one enrichment attempt.
type OutcomeStatus string

const (
	// OutcomeSuccess means the source returned usable data.
	OutcomeSuccess OutcomeStatus = "Success"
	// OutcomePartial means the source filled some but not all required
	// fields. Only the batch AI source emits it.
	OutcomePartial OutcomeStatus = "Partial"
	// OutcomeFailed means the source produced nothing for this record.
	OutcomeFailed OutcomeStatus = "Failed"
)

// Outcome is what a source returns for one record. Fields holds scalar
// values keyed by canonical field name; structured sub-records and counts
// travel in their own slots so the merge policy can apply the right
// presence rule to each.
type Outcome struct {
	Status     OutcomeStatus
	SourceName string
	Fields     map[string]string

	Leadership  []model.Contact
	JobListings []model.JobListing

	EngineeringHeadcount *int
	ITHeadcount          *int

	// Reason explains a failure. It never lands in the record itself; the
	// orchestrator folds it into enrichment notes when every source fails.
	Reason string
}

// Failed builds a failure outcome with an explanatory reason.
func Failed(sourceName, reason string) Outcome {
	return Outcome{Status: OutcomeFailed, SourceName: sourceName, Reason: reason}
}

// Source is the capability interface every per-record enrichment adapter
// implements. Attempt never panics and never surfaces transport errors;
// network, timeout, and parse failures are converted to a Failed outcome
// at the adapter boundary.
type Source interface {
	// Name returns the attribution label recorded in enrichment_source.
	Name() string
	// Attempt tries to enrich one record. The record is read, never
	// mutated; merging is the caller's job.
	Attempt(ctx context.Context, rec *model.Record) Outcome
}

// Registry holds the configured sources by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source to the registry.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Get returns a source by name, or nil if not configured.
func (r *Registry) Get(name string) Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// Resolve maps an ordered list of source names onto the registered sources,
// silently skipping names with no configured adapter. A source without
// credentials is simply never registered, so an unavailable source drops
// out of the priority list rather than failing records.
func (r *Registry) Resolve(names []string) []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Source
	for _, name := range names {
		if s, ok := r.sources[name]; ok {
			out = append(out, s)
		}
	}
	return out
}
