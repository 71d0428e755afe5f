// Package queryelasticsearch is the Elasticsearch-backed restaurant directory.
package queryelasticsearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"dining-search/internal/common/logger"
	"dining-search/internal/models"
	"dining-search/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	Component = "query-elasticsearch"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
)

type Store struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewStore(config *Config, client *elasticsearch.Client, log logger.Logger) *Store {
	if config == nil {
		config = LoadConfig()
	}
	return &Store{
		config: config,
		client: client,
		logger: logger.Component(log, Component),
	}
}

// FindNear returns restaurants ordered by distance from the origin, then rating.
func (s *Store) FindNear(ctx context.Context, q models.RestaurantQuery) ([]models.RestaurantRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	records, err := queries.FindRestaurantsNear(ctx, s.client, s.config.Index, q)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, queries.ErrMissingIndex) {
			return nil, ErrIndexNotFound
		}
		s.logger.Warn("restaurant search failed", map[string]interface{}{
			"index": s.config.Index,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	s.logger.Debug("restaurant search complete", map[string]interface{}{
		"index": s.config.Index,
		"hits":  len(records),
	})
	return records, nil
}
