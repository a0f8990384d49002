// Package apollo provides a client for the Apollo.io organization APIs.
package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when Apollo has no data for the query.
var ErrNotFound = eris.New("apollo: no results")

// Client defines the Apollo.io operations used by the enrichment pipeline.
type Client interface {
	// EnrichOrganization looks up an organization by domain.
	EnrichOrganization(ctx context.Context, domain string) (*Organization, error)
	// SearchOrganization finds the best-matching organization by name.
	SearchOrganization(ctx context.Context, name string) (*Organization, error)
}

// PhoneNumber is a phone entry on an Apollo organization.
type PhoneNumber struct {
	Number string `json:"number"`
	Type   string `json:"type"`
}

// OrgPerson is a person entry from the organization org chart.
type OrgPerson struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedInURL string `json:"linkedin_url"`
}

// JobListing is a job posting attached to an Apollo organization.
type JobListing struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PostedDate  string `json:"posted_date"`
}

// Organization is the subset of Apollo organization data the pipeline uses.
type Organization struct {
	Name                  string               `json:"name"`
	WebsiteURL            string               `json:"website_url"`
	Industry              string               `json:"industry"`
	EstimatedNumEmployees int                  `json:"estimated_num_employees"`
	ShortDescription      string               `json:"short_description"`
	SEODescription        string               `json:"seo_description"`
	City                  string               `json:"city"`
	State                 string               `json:"state"`
	Country               string               `json:"country"`
	TotalFundingPrinted   string               `json:"total_funding_printed"`
	LatestFundingStage    string               `json:"latest_funding_stage"`
	TechnologyNames       []string             `json:"technology_names"`
	LinkedInURL           string               `json:"linkedin_url"`
	TwitterURL            string               `json:"twitter_url"`
	FoundedYear           int                  `json:"founded_year"`
	Phone                 string               `json:"phone"`
	PrimaryPhone          *PhoneNumber         `json:"primary_phone"`
	OrgChartRootPeopleIDs []string             `json:"org_chart_root_people_ids"`
	OrgChartData          map[string]OrgPerson `json:"org_chart_data"`
	JobListings           []JobListing         `json:"job_listings"`
	DepartmentalHeadCount map[string]int       `json:"departmental_head_count"`
}

// Option configures the Apollo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-minute budget. Each call blocks until
// the limiter admits it, plus a small random jitter.
func WithRateLimit(rpm float64) Option {
	return func(c *httpClient) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rpm/60), 1)
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Apollo.io client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.apollo.io/api/v1",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10.0/60), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter admits one call, then sleeps a random
// jitter so retries across processes do not synchronize.
func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	jitter := time.Duration(100+rand.IntN(400)) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
	}
	return nil
}

// CleanDomain strips protocol, www prefix, path, and query from a URL,
// leaving the bare domain Apollo expects.
func CleanDomain(raw string) string {
	domain := strings.ToLower(strings.TrimSpace(raw))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "apollo: rate limit")
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) EnrichOrganization(ctx context.Context, domain string) (*Organization, error) {
	clean := CleanDomain(domain)
	if clean == "" {
		return nil, eris.New("apollo: empty domain")
	}

	params := url.Values{}
	params.Set("domain", clean)

	body, err := c.get(ctx, "/organizations/enrich", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Organization *Organization `json:"organization"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}
	if result.Organization == nil {
		return nil, ErrNotFound
	}
	return result.Organization, nil
}

func (c *httpClient) SearchOrganization(ctx context.Context, name string) (*Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, eris.New("apollo: empty organization name")
	}

	params := url.Values{}
	params.Set("q_organization_name", name)
	params.Set("page", "1")
	params.Set("per_page", "1")

	body, err := c.get(ctx, "/organizations/search", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Organizations []*Organization `json:"organizations"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal search response")
	}
	if len(result.Organizations) == 0 {
		return nil, ErrNotFound
	}

	org := result.Organizations[0]

	// Search results are shallow; a hit with a website is re-fetched through
	// the enrichment endpoint for the full payload.
	if org.WebsiteURL != "" {
		if enriched, err := c.EnrichOrganization(ctx, org.WebsiteURL); err == nil {
			return enriched, nil
		}
	}
	return org, nil
}
