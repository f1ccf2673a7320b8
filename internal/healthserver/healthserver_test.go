package healthserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/cache"
)

type fakeStats struct {
	total, dropped, errors uint64
}

func (f fakeStats) Stats() (uint64, uint64, uint64) { return f.total, f.dropped, f.errors }

func newTestServer() (*Server, *httptest.Server) {
	s := New("127.0.0.1:0", map[string]PublisherStats{"console": fakeStats{total: 3, dropped: 1}}, cache.NewMemoryCache(0, nil), nil)
	ts := httptest.NewServer(s.httpServer.Handler)
	return s, ts
}

func TestHealthzReturnsOK(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPublisherStatsReturnsRegisteredCounters(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats/publishers")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]publisherStatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, uint64(3), out["console"].Total)
	assert.Equal(t, uint64(1), out["console"].Dropped)
}

func TestCacheStatsReturnsEntryCountWhenCacheProvided(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats/cache")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCacheStatsReturnsNoContentWithoutCache(t *testing.T) {
	s := New("127.0.0.1:0", nil, nil, nil)
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats/cache")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
