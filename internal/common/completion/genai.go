package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	httpclient "dining-search/internal/common/http"
)

// GenAIConfig configures the GenAI gateway client.
type GenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
}

// GenAIClient calls a GenAI gateway speaking the /api/generate protocol.
type GenAIClient struct {
	config *GenAIConfig
	client *httpclient.Client
}

func NewGenAIClient(config *GenAIConfig) *GenAIClient {
	return &GenAIClient{
		config: config,
		client: httpclient.NewClient(config.Timeout, httpclient.WithRetries(config.MaxRetries)),
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	System  string                 `json:"system"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Format  string                 `json:"format"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *GenAIClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	req := generateRequest{
		Model:  c.config.Model,
		System: systemPrompt,
		Prompt: userText,
		Stream: false,
		Format: "json",
		Options: map[string]interface{}{
			"temperature": c.config.Temperature,
		},
	}

	headers := map[string]string{}
	if c.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.APIKey
	}

	var resp generateResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + "/api/generate"
	if err := c.client.PostJSON(ctx, url, headers, req, &resp); err != nil {
		if errors.Is(err, httpclient.ErrRequestTimeout) {
			return "", ErrCompletionTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	return resp.Response, nil
}
