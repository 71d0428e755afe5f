package orchestrator

import "time"

type Config struct {
	// Timeout bounds one whole orchestration, resolvers and search included.
	Timeout     time.Duration
	SearchLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     60 * time.Second,
		SearchLimit: 200,
	}
}
