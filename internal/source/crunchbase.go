package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/crunchbase"
)

// CrunchbaseName is the attribution label for the Crunchbase company database.
const CrunchbaseName = "Crunchbase"

// Crunchbase adapts the Crunchbase client to the Source interface. It
// searches by name and domain, then pulls full entity details for the best
// match.
type Crunchbase struct {
	client crunchbase.Client
}

// NewCrunchbase creates the Crunchbase source adapter.
func NewCrunchbase(client crunchbase.Client) *Crunchbase {
	return &Crunchbase{client: client}
}

func (c *Crunchbase) Name() string { return CrunchbaseName }

func (c *Crunchbase) Attempt(ctx context.Context, rec *model.Record) Outcome {
	if !rec.Eligible() {
		return Failed(CrunchbaseName, "missing both company name and website")
	}

	org, err := c.client.SearchOrganization(ctx,
		rec.Get(model.FieldCompanyName),
		rec.Get(model.FieldCompanyWebsite),
	)
	if err != nil {
		return Failed(CrunchbaseName, err.Error())
	}

	// The search payload is shallow; entity details carry categories and
	// funding. A details failure falls back to what search returned.
	if org.UUID != "" {
		if details, derr := c.client.GetOrganization(ctx, org.UUID); derr == nil {
			org = details
		} else {
			zap.L().Debug("crunchbase: entity details failed, using search result",
				zap.String("uuid", org.UUID),
				zap.Error(derr),
			)
		}
	}

	fields := map[string]string{
		model.FieldCompanyName:     org.Properties.Name,
		model.FieldCompanyWebsite:  org.Properties.Website.Value,
		model.FieldIndustry:        org.Industries(),
		model.FieldCompanySize:     org.Size(),
		model.FieldCompanyLocation: org.Location(),
		model.FieldFoundedYear:     org.Properties.FoundedOn.Value,
		model.FieldCompanyLinkedIn: org.Properties.LinkedIn.Value,
		model.FieldCompanyTwitter:  org.Properties.Twitter.Value,
	}

	desc := org.Properties.ShortDescription
	if desc == "" {
		desc = org.Properties.Description
	}
	fields[model.FieldCompanyDescription] = desc

	if usd := org.Properties.FundingTotal.ValueUSD; usd > 0 {
		fields[model.FieldCompanyFunding] = fmt.Sprintf("$%.0f", usd)
	}

	return Outcome{
		Status:     OutcomeSuccess,
		SourceName: CrunchbaseName,
		Fields:     fields,
	}
}
