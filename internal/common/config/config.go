package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig                 `mapstructure:"app"`
	Server     ServerConfig              `mapstructure:"server"`
	Database   DatabaseConfig            `mapstructure:"database"`
	Directory  DirectoryConfig           `mapstructure:"directory"`
	Completion CompletionConfig          `mapstructure:"completion"`
	Places     PlacesConfig              `mapstructure:"places"`
	Events     EventsConfig              `mapstructure:"events"`
	Cache      CacheConfig               `mapstructure:"cache"`
	Search     SearchConfig              `mapstructure:"search"`
	Resolvers  map[string]ResolverConfig `mapstructure:"resolvers"`
	Logging    LoggingConfig             `mapstructure:"logging"`
	Tracing    TracingConfig             `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses       []string `mapstructure:"addresses"`
	Username        string   `mapstructure:"username"`
	Password        string   `mapstructure:"password"`
	URL             string   `mapstructure:"url"`
	RestaurantIndex string   `mapstructure:"restaurant_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// DirectoryConfig selects the restaurant directory backend.
type DirectoryConfig struct {
	Backend string `mapstructure:"backend"` // postgres | elasticsearch
}

// CompletionConfig configures the natural-language extraction service.
type CompletionConfig struct {
	Provider    string  `mapstructure:"provider"` // genai | openai
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	Temperature float64 `mapstructure:"temperature"`
}

// PlacesConfig configures the external places fallback used for venue enrichment.
type PlacesConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	BaseURL   string  `mapstructure:"base_url"`
	APIKey    string  `mapstructure:"api_key"`
	Timeout   int     `mapstructure:"timeout"` // milliseconds
	Radius    float64 `mapstructure:"radius"`  // meters
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
}

type EventsConfig struct {
	Driver string `mapstructure:"driver"` // kafka | sns | none
	Kafka  struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	SNS struct {
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	ProfileTTL int  `mapstructure:"profile_ttl"` // milliseconds
	GroupTTL   int  `mapstructure:"group_ttl"`   // milliseconds
}

type SearchConfig struct {
	DefaultLimit        int     `mapstructure:"default_limit"`
	MaxWindowMonths     int     `mapstructure:"max_window_months"`
	VenueMinConfidence  float64 `mapstructure:"venue_min_confidence"`
	MemberLookupWorkers int     `mapstructure:"member_lookup_workers"`
}

// ResolverConfig holds the settings applicable to every resolver.
type ResolverConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	Timeout    int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries int  `mapstructure:"max_retries"` // completion retries
}

// LoggingConfig holds logging settings.
// TracingConfig selects where finished spans go: "none" or "stdout".
type TracingConfig struct {
	Exporter string `mapstructure:"exporter"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
