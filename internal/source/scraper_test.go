package source

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/webscrape"
)

// mockScrapeClient implements webscrape.Client for testing.
type mockScrapeClient struct {
	info        *webscrape.PageInfo
	err         error
	scrapeCalls int
}

func (m *mockScrapeClient) Scrape(_ context.Context, _ string) (*webscrape.PageInfo, error) {
	m.scrapeCalls++
	return m.info, m.err
}

func (m *mockScrapeClient) Discover(_ context.Context, _ string) (string, error) {
	return "", webscrape.ErrNoWebsite
}

func TestScraper_NoWebsiteFailsFast(t *testing.T) {
	client := &mockScrapeClient{}
	src := NewScraper(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyName: "Acme"})

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Zero(t, client.scrapeCalls)
}

func TestScraper_AnyFieldCountsAsSuccess(t *testing.T) {
	client := &mockScrapeClient{info: &webscrape.PageInfo{Phone: "+1 555 0100"}}
	src := NewScraper(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	require.Equal(t, OutcomeSuccess, out.Status)
	assert.Equal(t, "+1 555 0100", out.Fields[model.FieldCompanyPhone])
}

func TestScraper_TitleAloneIsNotEnrichment(t *testing.T) {
	client := &mockScrapeClient{info: &webscrape.PageInfo{Title: "Acme | Home"}}
	src := NewScraper(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Equal(t, "no usable data on landing page", out.Reason)
}

func TestScraper_AboutTextBacksUpDescription(t *testing.T) {
	client := &mockScrapeClient{info: &webscrape.PageInfo{AboutText: "We make things."}}
	src := NewScraper(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	require.Equal(t, OutcomeSuccess, out.Status)
	assert.Equal(t, "We make things.", out.Fields[model.FieldCompanyDescription])
}

func TestScraper_FetchErrorBecomesFailedOutcome(t *testing.T) {
	client := &mockScrapeClient{err: eris.New("webscrape: connection refused")}
	src := NewScraper(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Reason, "connection refused")
}
