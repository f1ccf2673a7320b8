package publisher

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElasticsearchIndexNameIncludesDatePrefix(t *testing.T) {
	cfg := ElasticsearchConfig{IndexPrefix: "myapp"}
	name := cfg.indexName()
	assert.True(t, strings.HasPrefix(name, "myapp-"))
}

func TestElasticsearchIndexNameDefaultsPrefix(t *testing.T) {
	cfg := ElasticsearchConfig{}
	name := cfg.indexName()
	assert.True(t, strings.HasPrefix(name, "aieventing-"))
}

func TestNewElasticsearchSinkRequiresHosts(t *testing.T) {
	_, err := NewElasticsearchSink(ElasticsearchConfig{}, testLogger())
	assert.Error(t, err)
}

func TestElasticsearchSinkWriteMessageSucceedsOn2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	defer server.Close()

	sink, err := NewElasticsearchSink(ElasticsearchConfig{Hosts: []string{server.URL}}, testLogger())
	require.NoError(t, err)

	require.NoError(t, sink.WriteMessage(t.Context(), `{"body":"hello"}`))
}

func TestElasticsearchSinkWriteMessageReturnsErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	}))
	defer server.Close()

	sink, err := NewElasticsearchSink(ElasticsearchConfig{Hosts: []string{server.URL}}, testLogger())
	require.NoError(t, err)

	err = sink.WriteMessage(t.Context(), `{"body":"hello"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}
