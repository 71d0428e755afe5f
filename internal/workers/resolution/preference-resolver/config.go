package preferenceresolver

import "time"

type Config struct {
	Timeout time.Duration
	// Workers bounds concurrent member profile lookups.
	Workers int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Workers: 8,
	}
}
