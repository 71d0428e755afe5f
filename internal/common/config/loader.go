package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DirectoryPostgres      = "postgres"
	DirectoryElasticsearch = "elasticsearch"

	CompletionGenAI  = "genai"
	CompletionOpenAI = "openai"

	EventsKafka = "kafka"
	EventsSNS   = "sns"
	EventsNone  = "none"

	TracingNone   = "none"
	TracingStdout = "stdout"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are commonly provided only as plain env vars.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Completion.APIKey == "" {
		if val := os.Getenv("COMPLETION_API_KEY"); val != "" {
			cfg.Completion.APIKey = val
		} else if val := os.Getenv("OPENAI_API_KEY"); val != "" {
			cfg.Completion.APIKey = val
		}
	}
	if cfg.Places.APIKey == "" {
		if val := os.Getenv("GOOGLE_PLACES_API_KEY"); val != "" {
			cfg.Places.APIKey = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dining-search"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}
	if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL != "" {
		cfg.Database.Elasticsearch.Addresses = []string{cfg.Database.Elasticsearch.URL}
	}
	if cfg.Database.Elasticsearch.RestaurantIndex == "" {
		cfg.Database.Elasticsearch.RestaurantIndex = "restaurants"
	}

	if cfg.Directory.Backend == "" {
		cfg.Directory.Backend = DirectoryPostgres
	}

	if cfg.Completion.Provider == "" {
		cfg.Completion.Provider = CompletionGenAI
	}
	if cfg.Completion.Timeout == 0 {
		cfg.Completion.Timeout = 30000
	}
	if cfg.Completion.MaxRetries == 0 {
		cfg.Completion.MaxRetries = 2
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "gpt-4o-mini"
	}

	if cfg.Places.BaseURL == "" {
		cfg.Places.BaseURL = "https://places.googleapis.com"
	}
	if cfg.Places.Timeout == 0 {
		cfg.Places.Timeout = 5000
	}
	if cfg.Places.Radius == 0 {
		cfg.Places.Radius = 5000
	}
	if cfg.Places.CenterLat == 0 && cfg.Places.CenterLng == 0 {
		cfg.Places.CenterLat = 51.5074
		cfg.Places.CenterLng = -0.1278
	}

	if cfg.Events.Driver == "" {
		cfg.Events.Driver = EventsNone
	}
	if cfg.Events.Kafka.Topic == "" {
		cfg.Events.Kafka.Topic = "dining.search.events"
	}

	if cfg.Cache.ProfileTTL == 0 {
		cfg.Cache.ProfileTTL = 600000
	}
	if cfg.Cache.GroupTTL == 0 {
		cfg.Cache.GroupTTL = 300000
	}

	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 200
	}
	if cfg.Search.MaxWindowMonths == 0 {
		cfg.Search.MaxWindowMonths = 6
	}
	if cfg.Search.VenueMinConfidence == 0 {
		cfg.Search.VenueMinConfidence = 0.5
	}
	if cfg.Search.MemberLookupWorkers == 0 {
		cfg.Search.MemberLookupWorkers = 8
	}

	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = TracingNone
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, r := range cfg.Resolvers {
		if r.Timeout == 0 {
			r.Timeout = 30000
		}
		if r.MaxRetries == 0 {
			r.MaxRetries = cfg.Completion.MaxRetries
		}
		cfg.Resolvers[key] = r
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	switch cfg.Directory.Backend {
	case DirectoryPostgres:
	case DirectoryElasticsearch:
		if cfg.Database.Elasticsearch.GetURL() == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required for the elasticsearch directory")
		}
	default:
		return fmt.Errorf("directory.backend %q is not supported", cfg.Directory.Backend)
	}

	if cfg.Cache.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when cache is enabled")
	}

	switch cfg.Completion.Provider {
	case CompletionGenAI, CompletionOpenAI:
	default:
		return fmt.Errorf("completion.provider %q is not supported", cfg.Completion.Provider)
	}
	if cfg.Completion.BaseURL == "" && cfg.Completion.Provider == CompletionGenAI {
		return fmt.Errorf("completion.base_url is required")
	}

	if cfg.Places.Enabled && cfg.Places.APIKey == "" {
		return fmt.Errorf("places.api_key is required when places fallback is enabled")
	}

	switch cfg.Events.Driver {
	case EventsNone:
	case EventsKafka:
		if len(cfg.Events.Kafka.Brokers) == 0 {
			return fmt.Errorf("events.kafka.brokers is required for the kafka driver")
		}
	case EventsSNS:
		if cfg.Events.SNS.TopicARN == "" {
			return fmt.Errorf("events.sns.topic_arn is required for the sns driver")
		}
	default:
		return fmt.Errorf("events.driver %q is not supported", cfg.Events.Driver)
	}

	switch cfg.Tracing.Exporter {
	case TracingNone, TracingStdout:
	default:
		return fmt.Errorf("tracing.exporter %q is not supported", cfg.Tracing.Exporter)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetResolverConfig retrieves resolver-specific configuration with fallback to defaults
func GetResolverConfig(cfg *Config, name string) ResolverConfig {
	if r, exists := cfg.Resolvers[name]; exists {
		return r
	}
	return ResolverConfig{
		Enabled:    true,
		Timeout:    30000,
		MaxRetries: cfg.Completion.MaxRetries,
	}
}
