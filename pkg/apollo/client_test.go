package apollo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/pkg/apollo"
)

func newTestClient(baseURL string) apollo.Client {
	// High rpm so the limiter never blocks; jitter still adds ~100-500ms.
	return apollo.NewClient("test-key",
		apollo.WithBaseURL(baseURL),
		apollo.WithRateLimit(60000),
	)
}

func TestCleanDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"acme.com", "acme.com"},
		{"https://acme.com", "acme.com"},
		{"http://www.acme.com", "acme.com"},
		{"https://www.acme.com/about?ref=nav", "acme.com"},
		{"  ACME.COM  ", "acme.com"},
		{"acme.com#team", "acme.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, apollo.CleanDomain(tt.in), tt.in)
	}
}

func TestEnrichOrganization(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/organizations/enrich", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organization": {
			"name": "Acme Corp",
			"website_url": "https://acme.com",
			"industry": "Manufacturing",
			"estimated_num_employees": 250,
			"departmental_head_count": {"engineering": 40}
		}}`))
	}))
	defer srv.Close()

	org, err := newTestClient(srv.URL).EnrichOrganization(context.Background(), "https://www.acme.com/about")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", org.Name)
	assert.Equal(t, "Manufacturing", org.Industry)
	assert.Equal(t, 250, org.EstimatedNumEmployees)
	assert.Equal(t, 40, org.DepartmentalHeadCount["engineering"])
}

func TestEnrichOrganization_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"organization": null}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).EnrichOrganization(context.Background(), "nobody.example")
	assert.ErrorIs(t, err, apollo.ErrNotFound)
}

func TestEnrichOrganization_EmptyDomain(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://unused.invalid").EnrichOrganization(context.Background(), "   ")
	assert.ErrorContains(t, err, "empty domain")
}

func TestEnrichOrganization_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).EnrichOrganization(context.Background(), "acme.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchOrganization_RefetchesByDomain(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/organizations/search":
			assert.Equal(t, "Acme", r.URL.Query().Get("q_organization_name"))
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			_, _ = w.Write([]byte(`{"organizations": [{"name": "Acme", "website_url": "acme.com"}]}`))
		case "/organizations/enrich":
			assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
			_, _ = w.Write([]byte(`{"organization": {"name": "Acme Corp", "website_url": "acme.com", "industry": "Manufacturing"}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	org, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", org.Name, "search hits with a website are re-fetched for the full payload")
	assert.Equal(t, "Manufacturing", org.Industry)
}

func TestSearchOrganization_ShallowResultWithoutWebsite(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organizations/search", r.URL.Path)
		_, _ = w.Write([]byte(`{"organizations": [{"name": "Stealth Co"}]}`))
	}))
	defer srv.Close()

	org, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Stealth Co")
	require.NoError(t, err)
	assert.Equal(t, "Stealth Co", org.Name)
}

func TestSearchOrganization_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"organizations": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Nobody Inc")
	assert.ErrorIs(t, err, apollo.ErrNotFound)
}
