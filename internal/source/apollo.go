package source

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/pkg/apollo"
)

// ApolloName is the attribution label for the Apollo.io contact database.
const ApolloName = "Apollo"

// techLeaderTerms identify technology leadership titles in org chart data.
var techLeaderTerms = []string{
	"cto", "chief technology", "chief information", "cio",
	"vp of tech", "vp tech", "vp, tech",
	"head of engineering", "vp of engineering", "vp engineering", "vp, engineering",
	"director of technology", "director of engineering",
	"tech lead", "engineering lead",
}

// techJobTerms identify technical roles in job listings.
var techJobTerms = []string{
	"developer", "engineer", "software", "data", "devops", "cloud",
	"infrastructure", "security", "web", "mobile", "frontend", "backend",
	"full stack", "fullstack", "architect", "information technology",
}

func matchesAny(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Apollo adapts the Apollo.io client to the Source interface. It prefers
// domain-based organization enrichment and falls back to name search.
type Apollo struct {
	client apollo.Client
}

// NewApollo creates the Apollo source adapter.
func NewApollo(client apollo.Client) *Apollo {
	return &Apollo{client: client}
}

func (a *Apollo) Name() string { return ApolloName }

func (a *Apollo) Attempt(ctx context.Context, rec *model.Record) Outcome {
	if !rec.Eligible() {
		return Failed(ApolloName, "missing both company name and website")
	}

	var (
		org *apollo.Organization
		err error
	)

	if website := rec.Get(model.FieldCompanyWebsite); website != "" {
		org, err = a.client.EnrichOrganization(ctx, website)
		if err != nil {
			zap.L().Debug("apollo: domain enrichment failed",
				zap.String("company", rec.CompanyName),
				zap.Error(err),
			)
		}
	}
	if org == nil {
		if name := rec.Get(model.FieldCompanyName); name != "" {
			org, err = a.client.SearchOrganization(ctx, name)
		}
	}
	if org == nil {
		reason := "no organization found"
		if err != nil {
			reason = err.Error()
		}
		return Failed(ApolloName, reason)
	}

	out := Outcome{
		Status:     OutcomeSuccess,
		SourceName: ApolloName,
		Fields:     organizationFields(org),
	}

	for _, personID := range org.OrgChartRootPeopleIDs {
		person, ok := org.OrgChartData[personID]
		if !ok || !matchesAny(person.Title, techLeaderTerms) {
			continue
		}
		out.Leadership = append(out.Leadership, model.Contact{
			Name:     strings.TrimSpace(person.FirstName + " " + person.LastName),
			Title:    person.Title,
			Email:    person.Email,
			Phone:    person.Phone,
			LinkedIn: person.LinkedInURL,
		})
	}

	for _, job := range org.JobListings {
		if !matchesAny(job.Title, techJobTerms) {
			continue
		}
		out.JobListings = append(out.JobListings, model.JobListing{
			Title:       job.Title,
			Description: job.Description,
			URL:         job.URL,
			PostedDate:  job.PostedDate,
		})
	}

	if org.DepartmentalHeadCount != nil {
		if n, ok := org.DepartmentalHeadCount["engineering"]; ok {
			out.EngineeringHeadcount = &n
		}
		if n, ok := org.DepartmentalHeadCount["information_technology"]; ok {
			out.ITHeadcount = &n
		}
	}

	return out
}

// organizationFields maps an Apollo organization onto canonical field keys.
func organizationFields(org *apollo.Organization) map[string]string {
	fields := map[string]string{
		model.FieldCompanyName:     org.Name,
		model.FieldCompanyWebsite:  org.WebsiteURL,
		model.FieldIndustry:        org.Industry,
		model.FieldCompanyFunding:  org.TotalFundingPrinted,
		model.FieldCompanyLinkedIn: org.LinkedInURL,
		model.FieldCompanyTwitter:  org.TwitterURL,
		model.FieldTechStack:       strings.Join(org.TechnologyNames, ", "),
	}

	desc := org.ShortDescription
	if desc == "" {
		desc = org.SEODescription
	}
	fields[model.FieldCompanyDescription] = desc

	var locParts []string
	for _, p := range []string{org.City, org.State, org.Country} {
		if p != "" {
			locParts = append(locParts, p)
		}
	}
	fields[model.FieldCompanyLocation] = strings.Join(locParts, ", ")

	if org.EstimatedNumEmployees > 0 {
		fields[model.FieldCompanySize] = strconv.Itoa(org.EstimatedNumEmployees)
	}
	if org.FoundedYear > 0 {
		fields[model.FieldFoundedYear] = strconv.Itoa(org.FoundedYear)
	}

	phone := org.Phone
	if phone == "" && org.PrimaryPhone != nil {
		phone = org.PrimaryPhone.Number
	}
	fields[model.FieldCompanyPhone] = phone

	return fields
}
