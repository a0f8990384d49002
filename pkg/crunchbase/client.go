// Package crunchbase provides a client for the Crunchbase v4 search and
// entity APIs.
package crunchbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when Crunchbase has no matching organization.
var ErrNotFound = eris.New("crunchbase: no results")

// Client defines the Crunchbase operations used by the enrichment pipeline.
type Client interface {
	// SearchOrganization finds the best-matching organization for a name
	// and optional domain.
	SearchOrganization(ctx context.Context, name, domain string) (*Organization, error)
	// GetOrganization fetches full organization details by UUID.
	GetOrganization(ctx context.Context, uuid string) (*Organization, error)
}

// Value is the Crunchbase wrapper around scalar field values.
type Value struct {
	Value string `json:"value"`
}

// FundingTotal is the Crunchbase funding amount structure.
type FundingTotal struct {
	ValueUSD float64 `json:"value_usd"`
}

// Identifier names a linked Crunchbase entity.
type Identifier struct {
	Value string `json:"value"`
}

// Properties holds the scalar fields of an organization.
type Properties struct {
	Name                string       `json:"name"`
	ShortDescription    string       `json:"short_description"`
	Description         string       `json:"description"`
	Website             Value        `json:"website"`
	LinkedIn            Value        `json:"linkedin"`
	Twitter             Value        `json:"twitter"`
	FoundedOn           Value        `json:"founded_on"`
	EmployeeCount       int          `json:"employee_count"`
	NumEmployeesEnum    string       `json:"num_employees_enum"`
	OperatingStatus     string       `json:"operating_status"`
	FundingTotal        FundingTotal `json:"funding_total"`
	CategoryGroups      []string     `json:"category_groups"`
	LocationIdentifiers []Identifier `json:"location_identifiers"`
}

// Organization is a Crunchbase organization entity.
type Organization struct {
	UUID       string     `json:"uuid"`
	Properties Properties `json:"properties"`
}

// Size returns the best available employee-count representation.
func (o *Organization) Size() string {
	if o.Properties.EmployeeCount > 0 {
		return fmt.Sprintf("%d", o.Properties.EmployeeCount)
	}
	return o.Properties.NumEmployeesEnum
}

// Location joins the organization's location identifiers.
func (o *Organization) Location() string {
	var parts []string
	for _, loc := range o.Properties.LocationIdentifiers {
		if loc.Value != "" {
			parts = append(parts, loc.Value)
		}
	}
	return strings.Join(parts, ", ")
}

// Industries joins the organization's category groups.
func (o *Organization) Industries() string {
	return strings.Join(o.Properties.CategoryGroups, ", ")
}

// Option configures the Crunchbase client.
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

// WithRateLimit sets the requests-per-minute budget.
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

// NewClient creates a new Crunchbase client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.crunchbase.com/api/v4",
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

func (c *httpClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "crunchbase: rate limit")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, eris.Wrap(err, "crunchbase: marshal payload")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, eris.Wrap(err, "crunchbase: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cb-User-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "crunchbase: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "crunchbase: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("crunchbase: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

var searchFieldIDs = []string{
	"identifier", "name", "short_description", "description", "website",
	"linkedin", "twitter", "location_identifiers", "category_groups",
	"funding_total", "founded_on", "employee_count", "num_employees_enum",
	"operating_status",
}

func (c *httpClient) SearchOrganization(ctx context.Context, name, domain string) (*Organization, error) {
	query := strings.TrimSpace(name)
	if domain != "" {
		query = strings.TrimSpace(query + " OR " + domain)
	}
	if query == "" {
		return nil, eris.New("crunchbase: empty query")
	}

	payload := map[string]any{
		"field_ids": searchFieldIDs,
		"query":     query,
		"limit":     1,
	}

	body, err := c.do(ctx, http.MethodPost, "/searches/organizations", payload)
	if err != nil {
		return nil, err
	}

	var result struct {
		Entities []*Organization `json:"entities"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "crunchbase: unmarshal search response")
	}
	if len(result.Entities) == 0 {
		return nil, ErrNotFound
	}
	return result.Entities[0], nil
}

func (c *httpClient) GetOrganization(ctx context.Context, uuid string) (*Organization, error) {
	if uuid == "" {
		return nil, eris.New("crunchbase: empty uuid")
	}

	body, err := c.do(ctx, http.MethodGet,
		"/entities/organizations/"+uuid+"?card_ids=fields,categories", nil)
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := json.Unmarshal(body, &org); err != nil {
		return nil, eris.Wrap(err, "crunchbase: unmarshal entity response")
	}
	if org.Properties.Name == "" {
		return nil, ErrNotFound
	}
	return &org, nil
}
