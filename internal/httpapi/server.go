// Package httpapi exposes the search orchestration over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dining-search/internal/common/database"
	"dining-search/internal/common/events"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/observability"
	"dining-search/internal/models"
)

const (
	Component       = "httpapi"
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// Searcher runs one query end to end.
type Searcher interface {
	Run(ctx context.Context, q models.Query) (*models.SearchResult, error)
}

type Options struct {
	Searcher     Searcher
	Publisher    events.Publisher
	Stores       map[string]database.Pinger
	Obs          *observability.Observability
	ReadyTimeout time.Duration
	Logger       logger.Logger
}

type Server struct {
	searcher     Searcher
	publisher    events.Publisher
	stores       map[string]database.Pinger
	obs          *observability.Observability
	readyTimeout time.Duration
	validate     *validator.Validate
	logger       logger.Logger
}

func NewServer(opts Options) *Server {
	if opts.Publisher == nil {
		opts.Publisher = events.NoopPublisher{}
	}
	if opts.ReadyTimeout == 0 {
		opts.ReadyTimeout = 3 * time.Second
	}
	return &Server{
		searcher:     opts.Searcher,
		publisher:    opts.Publisher,
		stores:       opts.Stores,
		obs:          opts.Obs,
		readyTimeout: opts.ReadyTimeout,
		validate:     validator.New(),
		logger:       logger.Component(opts.Logger, Component),
	}
}

// Router wires the HTTP routes behind the request-id middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID)
	r.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}
