package profilecache

import "time"

type Config struct {
	ProfileTTL time.Duration
	GroupTTL   time.Duration
	KeyPrefix  string
}

func LoadConfig() *Config {
	return &Config{
		ProfileTTL: 10 * time.Minute,
		GroupTTL:   5 * time.Minute,
		KeyPrefix:  "dining",
	}
}
