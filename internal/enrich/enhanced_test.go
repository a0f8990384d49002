package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
	"github.com/sells-group/enrich-cli/pkg/webscrape"
)

// mockScraper implements webscrape.Client for testing.
type mockScraper struct {
	discovered    map[string]string
	discoverCalls int
}

func (m *mockScraper) Scrape(_ context.Context, _ string) (*webscrape.PageInfo, error) {
	return &webscrape.PageInfo{}, nil
}

func (m *mockScraper) Discover(_ context.Context, companyName string) (string, error) {
	m.discoverCalls++
	if url, ok := m.discovered[companyName]; ok {
		return url, nil
	}
	return "", webscrape.ErrNoWebsite
}

func TestEnhanced_DiscoversWebsitesThenEnriches(t *testing.T) {
	scraper := &mockScraper{discovered: map[string]string{"Acme": "https://acme.com"}}
	src := &mockSource{name: "Apollo", outcome: successOutcome("Apollo", map[string]string{
		model.FieldIndustry:    "Software",
		model.FieldCompanySize: "10",
	})}
	tracker := NewTracker()
	runner := NewRunner(NewOrchestrator([]source.Source{src}, testRequired), tracker)
	enhanced := NewEnhanced(scraper, runner, tracker, 50)

	records := []*model.Record{
		{CompanyName: "Acme"},
		{CompanyName: "Beta", CompanyWebsite: "beta.io"},
		{CompanyName: "Ghost Co"},
	}
	stats := enhanced.Run(context.Background(), records)

	assert.Equal(t, 2, scraper.discoverCalls, "only records without a website are probed")
	assert.Equal(t, "https://acme.com", records[0].CompanyWebsite)
	assert.Empty(t, records[2].CompanyWebsite)
	assert.Equal(t, 3, stats.Success)
}

func TestEnhanced_DiscoveryCapped(t *testing.T) {
	scraper := &mockScraper{}
	src := &mockSource{name: "Apollo", outcome: successOutcome("Apollo", nil)}
	tracker := NewTracker()
	runner := NewRunner(NewOrchestrator([]source.Source{src}, testRequired), tracker)
	enhanced := NewEnhanced(scraper, runner, tracker, 2)

	records := []*model.Record{
		{CompanyName: "A"}, {CompanyName: "B"}, {CompanyName: "C"}, {CompanyName: "D"},
	}
	enhanced.Run(context.Background(), records)

	assert.Equal(t, 2, scraper.discoverCalls)
}

func TestEnhanced_StopAtPhaseCheckpoint(t *testing.T) {
	scraper := &mockScraper{}
	src := &mockSource{name: "Apollo", outcome: successOutcome("Apollo", nil)}
	tracker := NewTracker()
	tracker.RequestStop()
	runner := NewRunner(NewOrchestrator([]source.Source{src}, testRequired), tracker)
	enhanced := NewEnhanced(scraper, runner, tracker, 50)

	records := []*model.Record{{CompanyName: "Acme", CompanyWebsite: "acme.com"}}
	enhanced.Run(context.Background(), records)

	assert.Zero(t, src.calls, "enrichment phase must not start after a stop request")
}
