package salesforce

import (
	"context"

	"github.com/rotisserie/eris"
)

// PrepareLead fills in the fields Salesforce requires before a Lead insert.
// LastName falls back to FirstName, then "Unknown"; Company falls back to
// "Unknown".
func PrepareLead(fields map[string]any) map[string]any {
	prepared := make(map[string]any, len(fields))
	for k, v := range fields {
		prepared[k] = v
	}

	if s, _ := prepared["LastName"].(string); s == "" {
		if first, _ := prepared["FirstName"].(string); first != "" {
			prepared["LastName"] = first
		} else {
			prepared["LastName"] = "Unknown"
		}
	}
	if s, _ := prepared["Company"].(string); s == "" {
		prepared["Company"] = "Unknown"
	}
	return prepared
}

// CreateLead creates a single Lead record and returns the new Salesforce ID.
func CreateLead(ctx context.Context, c Client, fields map[string]any) (string, error) {
	id, err := c.InsertOne(ctx, "Lead", PrepareLead(fields))
	if err != nil {
		return "", eris.Wrap(err, "sf: create lead")
	}
	return id, nil
}

// CreateLeads inserts a collection of Lead records in one API round trip.
func CreateLeads(ctx context.Context, c Client, leads []map[string]any) ([]CollectionResult, error) {
	if len(leads) == 0 {
		return nil, nil
	}
	prepared := make([]map[string]any, len(leads))
	for i, l := range leads {
		prepared[i] = PrepareLead(l)
	}
	results, err := c.InsertCollection(ctx, "Lead", prepared)
	if err != nil {
		return nil, eris.Wrap(err, "sf: create leads")
	}
	return results, nil
}
