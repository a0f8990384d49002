// Package export pushes enriched records into Salesforce as Lead objects.
package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/salesforce"
)

// LeadSource is stamped onto every exported lead.
const LeadSource = "Lead Enrichment Pipeline"

// Result summarizes one export run.
type Result struct {
	Exported int
	Failed   int
	Errors   []string
}

// Exportable reports whether a record qualifies for export: successfully
// enriched and selected by the user.
func Exportable(rec *model.Record) bool {
	return rec.EnrichmentStatus == model.StatusSuccess && rec.Selected
}

// LeadFields maps a canonical record onto Salesforce Lead fields. The
// mapping is a fixed table; anything without a Lead column stays behind.
func LeadFields(rec *model.Record) map[string]any {
	fields := map[string]any{
		"FirstName":   rec.FirstName,
		"LastName":    rec.LastName,
		"Company":     rec.CompanyName,
		"Email":       rec.Email,
		"Phone":       rec.CompanyPhone,
		"Title":       rec.JobTitle,
		"Industry":    rec.Industry,
		"Website":     rec.CompanyWebsite,
		"Description": rec.CompanyDescription,
		"Street":      rec.Address,
		"LeadSource":  LeadSource,
	}
	for key, value := range fields {
		if s, ok := value.(string); ok && s == "" {
			delete(fields, key)
		}
	}
	return fields
}

// Exporter pushes records into Salesforce.
type Exporter struct {
	client salesforce.Client
}

// NewExporter creates an exporter over a Salesforce client.
func NewExporter(client salesforce.Client) *Exporter {
	return &Exporter{client: client}
}

// Export inserts every exportable record as a Lead using collection
// inserts. Per-record insert failures are collected, not fatal.
func (e *Exporter) Export(ctx context.Context, records []*model.Record) (*Result, error) {
	var leads []map[string]any
	for _, rec := range records {
		if Exportable(rec) {
			leads = append(leads, LeadFields(rec))
		}
	}
	if len(leads) == 0 {
		return &Result{}, nil
	}

	results, err := salesforce.CreateLeads(ctx, e.client, leads)
	if err != nil {
		return nil, eris.Wrap(err, "export: insert leads")
	}

	res := &Result{}
	for _, r := range results {
		if r.Success {
			res.Exported++
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, r.Errors...)
	}

	zap.L().Info("export: leads pushed",
		zap.Int("exported", res.Exported),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
