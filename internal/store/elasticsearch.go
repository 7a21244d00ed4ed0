package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"buzz-workers/internal/common/config"
	"buzz-workers/internal/models"
)

// maxResultWindow is the index.max_result_window default.
const maxResultWindow = 10000

type ElasticsearchPostStore struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchPostStore(client *elasticsearch.Client, index string) *ElasticsearchPostStore {
	if index == "" {
		index = "posts"
	}
	return &ElasticsearchPostStore{client: client, index: index}
}

func (s *ElasticsearchPostStore) Driver() string { return config.StoreDriverElasticsearch }

type postDocument struct {
	Account     string                           `json:"account"`
	Text        string                           `json:"text"`
	PublishedAt time.Time                        `json:"published_at"`
	IsThread    *bool                            `json:"is_thread,omitempty"`
	Impressions int64                            `json:"impressions"`
	Counts      map[models.InteractionKind]int64 `json:"counts"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source postDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func buildPostQuery(filter models.PostFilter) map[string]interface{} {
	filterClauses := []interface{}{}

	if filter.Account != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"account": filter.Account},
		})
	}

	if !filter.From.IsZero() || !filter.To.IsZero() {
		bounds := map[string]interface{}{}
		if !filter.From.IsZero() {
			bounds["gte"] = filter.From.UTC().Format(time.RFC3339)
		}
		if !filter.To.IsZero() {
			bounds["lte"] = filter.To.UTC().Format(time.RFC3339)
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"published_at": bounds},
		})
	}

	size := maxResultWindow
	if filter.Limit > 0 && filter.Limit < size {
		size = filter.Limit
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		},
		"sort": []interface{}{
			map[string]interface{}{"published_at": map[string]interface{}{"order": "asc"}},
			map[string]interface{}{"account": map[string]interface{}{"order": "asc"}},
		},
		"size": size,
	}
}

func (s *ElasticsearchPostStore) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	body, err := json.Marshal(buildPostQuery(filter))
	if err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, readError(ctx, s.Driver(), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, readError(ctx, s.Driver(), fmt.Errorf("search %s: %s", s.index, res.Status()))
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, readError(ctx, s.Driver(), fmt.Errorf("decode search response: %w", err))
	}

	posts := make([]models.Post, 0, len(decoded.Hits.Hits))
	for _, hit := range decoded.Hits.Hits {
		doc := hit.Source
		p := models.Post{
			Account:     doc.Account,
			Text:        doc.Text,
			PublishedAt: doc.PublishedAt,
			IsThread:    doc.IsThread,
			Impressions: doc.Impressions,
			Counts:      models.Counts(doc.Counts),
		}
		if err := checkCounts(p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}
