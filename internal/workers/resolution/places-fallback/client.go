// Package placesfallback searches the Google Places text-search API for
// venues the directory does not know yet.
package placesfallback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	httpclient "dining-search/internal/common/http"
	"dining-search/internal/common/logger"
	"dining-search/internal/models"
)

const (
	Component = "places-fallback"

	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.types,places.rating"
)

var (
	ErrPlacesUnavailable = errors.New("PLACES_UNAVAILABLE")
	ErrPlacesTimeout     = errors.New("PLACES_TIMEOUT")
)

type Client struct {
	config *Config
	http   *httpclient.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	if config == nil {
		config = LoadConfig()
	}
	return &Client{
		config: config,
		http:   httpclient.NewClient(config.Timeout, httpclient.WithRetries(config.MaxRetries)),
		logger: logger.Component(log, Component),
	}
}

type searchTextRequest struct {
	TextQuery      string       `json:"textQuery"`
	MaxResultCount int          `json:"maxResultCount,omitempty"`
	LocationBias   locationBias `json:"locationBias"`
}

type locationBias struct {
	Circle struct {
		Center latLng  `json:"center"`
		Radius float64 `json:"radius"`
	} `json:"circle"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchTextResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string   `json:"formattedAddress"`
		Location         latLng   `json:"location"`
		Types            []string `json:"types"`
		Rating           float64  `json:"rating"`
	} `json:"places"`
}

// Search runs a text search biased towards (lat, lng), or the configured
// center when no origin is given.
func (c *Client) Search(ctx context.Context, text string, lat, lng float64) ([]models.PlaceCandidate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []models.PlaceCandidate{}, nil
	}
	if lat == 0 && lng == 0 {
		lat, lng = c.config.CenterLat, c.config.CenterLng
	}

	req := searchTextRequest{
		TextQuery:      text,
		MaxResultCount: c.config.MaxResults,
	}
	req.LocationBias.Circle.Center = latLng{Latitude: lat, Longitude: lng}
	req.LocationBias.Circle.Radius = c.config.Radius

	headers := map[string]string{
		"X-Goog-Api-Key":   c.config.APIKey,
		"X-Goog-FieldMask": fieldMask,
	}

	var resp searchTextResponse
	url := strings.TrimRight(c.config.BaseURL, "/") + "/v1/places:searchText"
	if err := c.http.PostJSON(ctx, url, headers, req, &resp); err != nil {
		if errors.Is(err, httpclient.ErrRequestTimeout) {
			return nil, ErrPlacesTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrPlacesUnavailable, err)
	}

	candidates := make([]models.PlaceCandidate, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p.ID == "" || p.DisplayName.Text == "" {
			continue
		}
		candidates = append(candidates, models.PlaceCandidate{
			ID:        p.ID,
			Name:      p.DisplayName.Text,
			Address:   p.FormattedAddress,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Types:     p.Types,
			Rating:    p.Rating,
		})
	}

	c.logger.Info("places search completed", map[string]interface{}{
		"query":       text,
		"resultCount": len(candidates),
	})
	return candidates, nil
}
