package placesfallback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-search/internal/common/logger"
)

func createTestConfig(baseURL string) *Config {
	cfg := LoadConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	return cfg
}

func TestClient_Search(t *testing.T) {
	var body searchTextRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, fieldMask, r.Header.Get("X-Goog-FieldMask"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"places":[
			{"id":"ChIJ1","displayName":{"text":"Prince Edward Theatre"},"formattedAddress":"28 Old Compton St","location":{"latitude":51.5136,"longitude":-0.1318},"types":["performing_arts_theater"],"rating":4.7},
			{"id":"","displayName":{"text":"ghost"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(createTestConfig(srv.URL), logger.NewTestLogger(t))
	candidates, err := client.Search(context.Background(), "Prince Edward Theatre", 0, 0)
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "ChIJ1", candidates[0].ID)
	assert.Equal(t, 51.5136, candidates[0].Latitude)
	assert.Equal(t, []string{"performing_arts_theater"}, candidates[0].Types)

	assert.Equal(t, "Prince Edward Theatre", body.TextQuery)
	assert.Equal(t, 51.5074, body.LocationBias.Circle.Center.Latitude)
	assert.Equal(t, 5000.0, body.LocationBias.Circle.Radius)
}

func TestClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(createTestConfig(srv.URL), logger.NewTestLogger(t))
	_, err := client.Search(context.Background(), "Apollo", 51.5, -0.13)
	assert.ErrorIs(t, err, ErrPlacesUnavailable)
}

func TestClient_Search_EmptyText(t *testing.T) {
	client := NewClient(createTestConfig("http://127.0.0.1:0"), logger.NewTestLogger(t))
	candidates, err := client.Search(context.Background(), "   ", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
