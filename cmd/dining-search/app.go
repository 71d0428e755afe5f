package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dining-search/internal/common/completion"
	"dining-search/internal/common/config"
	"dining-search/internal/common/database"
	"dining-search/internal/common/events"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/observability"
	"dining-search/internal/httpapi"
	"dining-search/internal/models"
	profilecache "dining-search/internal/workers/data-access/profile-cache"
	queryelasticsearch "dining-search/internal/workers/data-access/query-elasticsearch"
	querypostgresql "dining-search/internal/workers/data-access/query-postgresql"
	datetimeresolver "dining-search/internal/workers/resolution/datetime-resolver"
	placesfallback "dining-search/internal/workers/resolution/places-fallback"
	preferenceresolver "dining-search/internal/workers/resolution/preference-resolver"
	venueresolver "dining-search/internal/workers/resolution/venue-resolver"
	geosearch "dining-search/internal/workers/search/geo-search"
	"dining-search/internal/workers/search/orchestrator"
)

const eventPublishTimeout = 5 * time.Second

// app holds every wired component plus what must be released on exit.
type app struct {
	cfg          *config.Config
	orchestrator *orchestrator.Orchestrator
	publisher    events.Publisher
	stores       map[string]database.Pinger
	obs          *observability.Observability
	closers      []func()
	log          logger.Logger
}

func (a *app) server() *httpapi.Server {
	return httpapi.NewServer(httpapi.Options{
		Searcher:  a.orchestrator,
		Publisher: a.publisher,
		Stores:    a.stores,
		Obs:       a.obs,
		Logger:    a.log,
	})
}

// Close releases components in reverse construction order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (*app, error) {
	log := logger.NewZapAdapter(zapLog)
	a := &app{
		cfg:    cfg,
		stores: make(map[string]database.Pinger),
		log:    log,
	}

	spanExporter, err := observability.NewSpanExporter(cfg.Tracing.Exporter)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	var obsOpts []observability.Option
	if spanExporter != nil {
		obsOpts = append(obsOpts, observability.WithSpanExporter(spanExporter))
	}
	a.obs = observability.New(cfg.App.Name, obsOpts...)
	a.closers = append(a.closers, a.obs.Shutdown)

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = pg.Close() })
	a.stores["postgres"] = pg
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.stores["redis"] = rdb
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	if cfg.Directory.Backend == config.DirectoryElasticsearch {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			a.Close()
			return nil, err
		}
		a.stores["elasticsearch"] = es
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Event bus ---
	bus, err := events.New(ctx, cfg.Events)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("event publisher: %w", err)
	}
	a.publisher = events.NewAsyncPublisher(bus, eventPublishTimeout, log)
	a.closers = append(a.closers, func() { _ = a.publisher.Close() })

	// --- Stores ---
	pgStore := querypostgresql.NewStore(querypostgresql.LoadConfig(), pg.DB, log)

	var (
		profiles preferenceresolver.ProfileStore = pgStore
		groups   preferenceresolver.GroupStore   = pgStore
	)
	if rdb != nil {
		cache := profilecache.New(&profilecache.Config{
			ProfileTTL: config.GetDuration(cfg.Cache.ProfileTTL),
			GroupTTL:   config.GetDuration(cfg.Cache.GroupTTL),
			KeyPrefix:  "dining",
		}, pgStore, rdb.Client, log)
		profiles, groups = cache, cache
	}

	var restaurants geosearch.RestaurantDirectory = pgStore
	if es != nil {
		restaurants = queryelasticsearch.NewStore(&queryelasticsearch.Config{
			Timeout: 10 * time.Second,
			Index:   cfg.Database.Elasticsearch.RestaurantIndex,
		}, es.Client, log)
	}

	// --- Resolvers ---
	venueRC := config.GetResolverConfig(cfg, venueresolver.Component)
	venueExtractor, err := extractorFor(cfg, venueRC)
	if err != nil {
		a.Close()
		return nil, err
	}
	venueCfg := &venueresolver.Config{
		Timeout:          config.GetDuration(venueRC.Timeout),
		MinConfidence:    cfg.Search.VenueMinConfidence,
		PlacesSimilarity: 0.8,
		WriteBackTimeout: 10 * time.Second,
	}
	strategies := []venueresolver.Strategy{venueresolver.NewDirectoryStrategy(pgStore, log)}
	if cfg.Places.Enabled {
		placesCfg := placesfallback.LoadConfig()
		placesCfg.BaseURL = cfg.Places.BaseURL
		placesCfg.APIKey = cfg.Places.APIKey
		placesCfg.Timeout = config.GetDuration(cfg.Places.Timeout)
		placesCfg.Radius = cfg.Places.Radius
		placesCfg.CenterLat = cfg.Places.CenterLat
		placesCfg.CenterLng = cfg.Places.CenterLng
		strategies = append(strategies, venueresolver.NewPlacesStrategy(venueCfg,
			placesfallback.NewClient(placesCfg, log), pgStore, a.publisher, log))
	}
	venues := venueresolver.NewResolver(venueCfg, venueExtractor, strategies, log)
	a.closers = append(a.closers, venues.Wait)
	zapLog.Info("venue resolver ready", zap.Strings("strategies", venues.Strategies()))

	var datetimes orchestrator.DateTimeResolver = staticWindow{}
	if rc := config.GetResolverConfig(cfg, datetimeresolver.Component); rc.Enabled {
		ex, err := extractorFor(cfg, rc)
		if err != nil {
			a.Close()
			return nil, err
		}
		datetimes = datetimeresolver.NewResolver(&datetimeresolver.Config{
			Timeout:         config.GetDuration(rc.Timeout),
			MaxWindowMonths: cfg.Search.MaxWindowMonths,
			DefaultDuration: 2 * time.Hour,
		}, ex, log)
	} else {
		zapLog.Warn("datetime resolver disabled, windows will be empty")
	}

	var preferences orchestrator.PreferenceResolver = staticPreferences{}
	if rc := config.GetResolverConfig(cfg, preferenceresolver.Component); rc.Enabled {
		ex, err := extractorFor(cfg, rc)
		if err != nil {
			a.Close()
			return nil, err
		}
		pr, err := preferenceresolver.NewResolver(&preferenceresolver.Config{
			Timeout: config.GetDuration(rc.Timeout),
			Workers: cfg.Search.MemberLookupWorkers,
		}, ex, profiles, groups, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, pr.Close)
		preferences = pr
	} else {
		zapLog.Warn("preference resolver disabled, preferences will be empty")
	}

	searcher := geosearch.NewExecutor(&geosearch.Config{
		Timeout:      15 * time.Second,
		DefaultLimit: cfg.Search.DefaultLimit,
	}, restaurants, log)

	a.orchestrator = orchestrator.New(&orchestrator.Config{
		Timeout:     config.GetDuration(cfg.Server.WriteTimeout),
		SearchLimit: cfg.Search.DefaultLimit,
	}, venues, datetimes, preferences, searcher, log, orchestrator.WithObservability(a.obs))

	return a, nil
}

// extractorFor builds a completion client carrying one resolver's retry budget.
func extractorFor(cfg *config.Config, rc config.ResolverConfig) (completion.NLExtractor, error) {
	cc := cfg.Completion
	cc.MaxRetries = rc.MaxRetries
	if rc.Timeout > 0 {
		cc.Timeout = rc.Timeout
	}
	ex, err := completion.New(cc)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}
	return ex, nil
}

// staticWindow stands in for a disabled datetime resolver.
type staticWindow struct{}

func (staticWindow) Resolve(context.Context, string, time.Time) models.TimeWindow {
	return models.TimeWindow{Confidence: 0.1}
}

// staticPreferences stands in for a disabled preference resolver.
type staticPreferences struct{}

func (staticPreferences) Resolve(context.Context, string, string) (models.PreferenceSet, *models.GroupDisambiguation) {
	return models.EmptyPreferences(), nil
}
