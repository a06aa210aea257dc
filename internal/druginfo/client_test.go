package druginfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosebuddy/dosebuddy-server/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.DrugInfoConfig{
		Enabled:  true,
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
		CacheTTL: time.Hour,
		Limit:    5,
		Prefix:   "druglabel",
	}, nil)
}

const aspirinLabel = `{
	"results": [{
		"purpose": ["Pain reliever"],
		"dosage_and_administration": ["take 1-2 tablets"],
		"warnings": ["Reye's syndrome warning"],
		"openfda": {
			"brand_name": ["Aspirin"],
			"generic_name": ["ASPIRIN"]
		}
	}]
}`

func TestSearchReturnsLabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drug/label.json", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "limit=5")
		w.Write([]byte(aspirinLabel))
	}))
	defer srv.Close()

	labels, err := testClient(srv.URL).Search(context.Background(), "Aspirin")
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "Aspirin", labels[0].BrandName)
	assert.Equal(t, "Pain reliever", labels[0].Purpose)
	assert.Equal(t, "take 1-2 tablets", labels[0].Dosage)
}

func TestSearchNoMatchesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// openFDA answers 404 when a search matches nothing.
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	labels, err := testClient(srv.URL).Search(context.Background(), "Unknownium")
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestSearchFallsBackToFirstWord(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("search")
		queries = append(queries, q)
		// Only the bare brand name matches; "Aspirin 100mg" never does.
		if q == `openfda.brand_name:"Aspirin"` {
			w.Write([]byte(aspirinLabel))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	labels, err := testClient(srv.URL).Search(context.Background(), "Aspirin 100mg")
	require.NoError(t, err)
	require.Len(t, labels, 1)
	// All three indexes were tried with the full name before retrying.
	assert.Contains(t, queries, `openfda.brand_name:"Aspirin 100mg"`)
	assert.Contains(t, queries, `openfda.brand_name:"Aspirin"`)
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Search(context.Background(), "Aspirin")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestSearchDisabledAndEmptyQuery(t *testing.T) {
	c := testClient("http://unused.invalid")
	labels, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, labels)

	c.cfg.Enabled = false
	labels, err = c.Search(context.Background(), "Aspirin")
	require.NoError(t, err)
	assert.Empty(t, labels)
}
