package crunchbase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/enrich-cli/pkg/crunchbase"
)

func newTestClient(baseURL string) crunchbase.Client {
	return crunchbase.NewClient("cb-key",
		crunchbase.WithBaseURL(baseURL),
		crunchbase.WithRateLimit(60000),
	)
}

func TestSearchOrganization(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/searches/organizations", r.URL.Path)
		assert.Equal(t, "cb-key", r.Header.Get("X-Cb-User-Key"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Acme OR acme.com", payload["query"])
		assert.Equal(t, float64(1), payload["limit"])

		_, _ = w.Write([]byte(`{"entities": [{
			"uuid": "abc-123",
			"properties": {
				"name": "Acme",
				"website": {"value": "https://acme.com"},
				"employee_count": 120,
				"category_groups": ["Manufacturing", "Hardware"],
				"location_identifiers": [{"value": "Columbus"}, {"value": "Ohio"}]
			}
		}]}`))
	}))
	defer srv.Close()

	org, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Acme", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", org.UUID)
	assert.Equal(t, "Acme", org.Properties.Name)
	assert.Equal(t, "120", org.Size())
	assert.Equal(t, "Columbus, Ohio", org.Location())
	assert.Equal(t, "Manufacturing, Hardware", org.Industries())
}

func TestSearchOrganization_NameOnlyQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Acme", payload["query"])
		_, _ = w.Write([]byte(`{"entities": [{"uuid": "x", "properties": {"name": "Acme"}}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Acme", "")
	require.NoError(t, err)
}

func TestSearchOrganization_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"entities": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SearchOrganization(context.Background(), "Nobody Inc", "")
	assert.ErrorIs(t, err, crunchbase.ErrNotFound)
}

func TestSearchOrganization_EmptyQuery(t *testing.T) {
	t.Parallel()

	_, err := newTestClient("http://unused.invalid").SearchOrganization(context.Background(), "  ", "")
	assert.ErrorContains(t, err, "empty query")
}

func TestGetOrganization(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/entities/organizations/abc-123", r.URL.Path)
		assert.Equal(t, "fields,categories", r.URL.Query().Get("card_ids"))
		assert.Equal(t, "cb-key", r.Header.Get("X-Cb-User-Key"))

		_, _ = w.Write([]byte(`{
			"uuid": "abc-123",
			"properties": {
				"name": "Acme",
				"short_description": "Widgets at scale",
				"num_employees_enum": "c_00101_00250"
			}
		}`))
	}))
	defer srv.Close()

	org, err := newTestClient(srv.URL).GetOrganization(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "Widgets at scale", org.Properties.ShortDescription)
	assert.Equal(t, "c_00101_00250", org.Size(), "enum is the fallback when employee_count is zero")
}

func TestGetOrganization_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"uuid": "abc-123", "properties": {}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetOrganization(context.Background(), "abc-123")
	assert.ErrorIs(t, err, crunchbase.ErrNotFound)
}

func TestGetOrganization_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetOrganization(context.Background(), "abc-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
