// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"buzz-workers/internal/common/config"
)

// ElasticsearchClient reaches the search cluster that mirrors the post
// archive. The workers only read from it.
type ElasticsearchClient struct {
	Client    *elasticsearch.Client
	addresses []string
}

// ElasticsearchOption adjusts the client config before it is built.
type ElasticsearchOption func(*elasticsearch.Config)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) ElasticsearchOption {
	return func(c *elasticsearch.Config) { c.Transport = rt }
}

func NewElasticsearch(cfg config.ElasticsearchConfig, opts ...ElasticsearchOption) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no addresses configured")
	}

	esCfg := elasticsearch.Config{
		Addresses:     addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    3,
		RetryOnStatus: []int{http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
	for _, opt := range opts {
		opt(&esCfg)
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, addresses: addresses}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch %v: ping: %w", c.addresses, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch %v: ping: %s", c.addresses, res.Status())
	}
	return nil
}

// IndexExists fails unless index is present, so a mistyped posts index
// surfaces at startup instead of as an empty corpus.
func (c *ElasticsearchClient) IndexExists(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch index %q: %w", index, err)
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("elasticsearch index %q does not exist", index)
	case res.IsError():
		return fmt.Errorf("elasticsearch index %q: %s", index, res.Status())
	}
	return nil
}
