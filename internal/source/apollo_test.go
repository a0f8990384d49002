package source

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/apollo"
)

// mockApollo implements apollo.Client for testing.
type mockApollo struct {
	enrichOrg   *apollo.Organization
	enrichErr   error
	searchOrg   *apollo.Organization
	searchErr   error
	enrichCalls int
	searchCalls int
}

func (m *mockApollo) EnrichOrganization(_ context.Context, _ string) (*apollo.Organization, error) {
	m.enrichCalls++
	return m.enrichOrg, m.enrichErr
}

func (m *mockApollo) SearchOrganization(_ context.Context, _ string) (*apollo.Organization, error) {
	m.searchCalls++
	return m.searchOrg, m.searchErr
}

func TestApollo_IneligibleRecordFailsFast(t *testing.T) {
	client := &mockApollo{}
	src := NewApollo(client)

	out := src.Attempt(context.Background(), &model.Record{})

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Zero(t, client.enrichCalls)
	assert.Zero(t, client.searchCalls)
}

func TestApollo_DomainEnrichmentPreferred(t *testing.T) {
	client := &mockApollo{enrichOrg: &apollo.Organization{
		Name:                  "Acme Corp",
		WebsiteURL:            "https://acme.com",
		Industry:              "Manufacturing",
		EstimatedNumEmployees: 120,
		ShortDescription:      "Makers of things",
		FoundedYear:           1999,
		Phone:                 "+1 555 0100",
		TechnologyNames:       []string{"Go", "Postgres"},
	}}
	src := NewApollo(client)

	rec := &model.Record{CompanyName: "Acme", CompanyWebsite: "acme.com"}
	out := src.Attempt(context.Background(), rec)

	require.Equal(t, OutcomeSuccess, out.Status)
	assert.Equal(t, 1, client.enrichCalls)
	assert.Zero(t, client.searchCalls, "domain hit makes name search unnecessary")
	assert.Equal(t, ApolloName, out.SourceName)
	assert.Equal(t, "Acme Corp", out.Fields[model.FieldCompanyName])
	assert.Equal(t, "Manufacturing", out.Fields[model.FieldIndustry])
	assert.Equal(t, "120", out.Fields[model.FieldCompanySize])
	assert.Equal(t, "1999", out.Fields[model.FieldFoundedYear])
	assert.Equal(t, "Go, Postgres", out.Fields[model.FieldTechStack])
}

func TestApollo_NameSearchFallback(t *testing.T) {
	client := &mockApollo{
		enrichErr: eris.New("apollo: not found"),
		searchOrg: &apollo.Organization{Name: "Acme Corp", Industry: "Manufacturing"},
	}
	src := NewApollo(client)

	rec := &model.Record{CompanyName: "Acme", CompanyWebsite: "acme.com"}
	out := src.Attempt(context.Background(), rec)

	assert.Equal(t, OutcomeSuccess, out.Status)
	assert.Equal(t, 1, client.enrichCalls)
	assert.Equal(t, 1, client.searchCalls)
}

func TestApollo_BothLookupsFail(t *testing.T) {
	client := &mockApollo{
		enrichErr: eris.New("apollo: not found"),
		searchErr: eris.New("apollo: search failed"),
	}
	src := NewApollo(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyName: "Acme", CompanyWebsite: "acme.com"})

	assert.Equal(t, OutcomeFailed, out.Status)
	assert.Contains(t, out.Reason, "search failed")
}

func TestApollo_TechLeadershipFiltered(t *testing.T) {
	client := &mockApollo{enrichOrg: &apollo.Organization{
		Name:                  "Acme Corp",
		OrgChartRootPeopleIDs: []string{"p1", "p2", "p3"},
		OrgChartData: map[string]apollo.OrgPerson{
			"p1": {FirstName: "Jane", LastName: "Doe", Title: "CTO"},
			"p2": {FirstName: "John", LastName: "Smith", Title: "VP of Sales"},
			"p3": {FirstName: "Ann", LastName: "Lee", Title: "Head of Engineering"},
		},
	}}
	src := NewApollo(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	require.Equal(t, OutcomeSuccess, out.Status)
	require.Len(t, out.Leadership, 2)
	titles := []string{out.Leadership[0].Title, out.Leadership[1].Title}
	assert.Contains(t, titles, "CTO")
	assert.Contains(t, titles, "Head of Engineering")
}

func TestApollo_TechJobListingsFiltered(t *testing.T) {
	client := &mockApollo{enrichOrg: &apollo.Organization{
		Name: "Acme Corp",
		JobListings: []apollo.JobListing{
			{Title: "Senior Software Engineer"},
			{Title: "Account Executive"},
			{Title: "DevOps Lead"},
		},
	}}
	src := NewApollo(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	require.Len(t, out.JobListings, 2)
	assert.Equal(t, "Senior Software Engineer", out.JobListings[0].Title)
	assert.Equal(t, "DevOps Lead", out.JobListings[1].Title)
}

func TestApollo_DepartmentalHeadcounts(t *testing.T) {
	client := &mockApollo{enrichOrg: &apollo.Organization{
		Name: "Acme Corp",
		DepartmentalHeadCount: map[string]int{
			"engineering":            40,
			"information_technology": 0,
			"sales":                  25,
		},
	}}
	src := NewApollo(client)

	out := src.Attempt(context.Background(), &model.Record{CompanyWebsite: "acme.com"})

	require.NotNil(t, out.EngineeringHeadcount)
	assert.Equal(t, 40, *out.EngineeringHeadcount)
	// Zero is a real count, distinct from the department being absent.
	require.NotNil(t, out.ITHeadcount)
	assert.Equal(t, 0, *out.ITHeadcount)
}
