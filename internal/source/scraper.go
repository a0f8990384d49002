package source

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/webscrape"
)

// ScraperName is the attribution label for the website scraper.
const ScraperName = "Web Scraping"

// Scraper adapts the website scraper to the Source interface. Its success
// bar is lower than the database sources': any non-empty field beyond the
// company name and website counts.
type Scraper struct {
	client webscrape.Client
}

// NewScraper creates the website scraper source adapter.
func NewScraper(client webscrape.Client) *Scraper {
	return &Scraper{client: client}
}

func (s *Scraper) Name() string { return ScraperName }

func (s *Scraper) Attempt(ctx context.Context, rec *model.Record) Outcome {
	website := rec.Get(model.FieldCompanyWebsite)
	if website == "" {
		return Failed(ScraperName, "no website to scrape")
	}

	info, err := s.client.Scrape(ctx, website)
	if err != nil {
		return Failed(ScraperName, err.Error())
	}

	desc := info.Description
	if desc == "" {
		desc = info.AboutText
	}

	fields := map[string]string{
		model.FieldCompanyDescription: desc,
		model.FieldCompanyLinkedIn:    info.LinkedInURL,
		model.FieldCompanyTwitter:     info.TwitterURL,
		model.FieldCompanyPhone:       info.Phone,
		model.FieldEmail:              info.Email,
	}

	// Scraping succeeds only if it produced something beyond identity
	// fields; a bare title is not enrichment.
	any := false
	for _, v := range fields {
		if v != "" {
			any = true
			break
		}
	}
	if !any {
		return Failed(ScraperName, "no usable data on landing page")
	}

	return Outcome{
		Status:     OutcomeSuccess,
		SourceName: ScraperName,
		Fields:     fields,
	}
}
