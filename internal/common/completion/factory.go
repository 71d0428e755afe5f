package completion

import (
	"fmt"

	"dining-search/internal/common/config"
)

// New builds the extractor selected by configuration.
func New(cfg config.CompletionConfig) (NLExtractor, error) {
	switch cfg.Provider {
	case config.CompletionGenAI:
		return NewGenAIClient(&GenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Timeout:     config.GetDuration(cfg.Timeout),
			MaxRetries:  cfg.MaxRetries,
			Temperature: cfg.Temperature,
		}), nil
	case config.CompletionOpenAI:
		return NewOpenAIClient(&OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
