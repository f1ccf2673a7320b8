package publisher

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
)

// ElasticsearchConfig configures ElasticsearchSink, adapted from the
// teacher's ElasticsearchConfig, trimmed to what a single-record-per-call
// sink needs (batching belongs to the publisher queue, not the sink).
type ElasticsearchConfig struct {
	Hosts       []string
	IndexPrefix string
	APIKey      string
	Username    string
	Password    string
}

func (c ElasticsearchConfig) indexName() string {
	prefix := c.IndexPrefix
	if prefix == "" {
		prefix = "aieventing"
	}
	return fmt.Sprintf("%s-%s", prefix, time.Now().UTC().Format("2006.01.02"))
}

// ElasticsearchSink indexes one already-serialized OTEL-shaped record per
// Publisher call, adapted from internal/sinks/elasticsearch_sink.go.
type ElasticsearchSink struct {
	cfg    ElasticsearchConfig
	client *elasticsearch.Client
	logger *logrus.Logger
}

func NewElasticsearchSink(cfg ElasticsearchConfig, logger *logrus.Logger) (*ElasticsearchSink, error) {
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("elasticsearch sink: no hosts configured")
	}

	esCfg := elasticsearch.Config{Addresses: cfg.Hosts}
	if cfg.APIKey != "" {
		esCfg.APIKey = cfg.APIKey
	} else if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch sink: %w", err)
	}

	return &ElasticsearchSink{cfg: cfg, client: client, logger: logger}, nil
}

func (e *ElasticsearchSink) WriteMessage(ctx context.Context, message string) error {
	req := esapi.IndexRequest{
		Index: e.cfg.indexName(),
		Body:  bytes.NewReader([]byte(message)),
	}
	resp, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("elasticsearch sink: index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("elasticsearch sink: index error: %s", strings.TrimSpace(buf.String()))
	}
	return nil
}
