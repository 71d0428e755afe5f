package queries

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"dining-search/internal/models"
)

type restaurantHit struct {
	Source struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		CuisineType string   `json:"cuisine_type"`
		Address     string   `json:"address"`
		Rating      *float64 `json:"rating"`
		PriceLevel  *int     `json:"price_level"`
		Location    struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	} `json:"_source"`
	ID   string        `json:"_id"`
	Sort []interface{} `json:"sort"`
}

type searchResponse struct {
	Hits struct {
		Hits []restaurantHit `json:"hits"`
	} `json:"hits"`
}

// FindRestaurantsNear executes the geo search and maps hits to records. The
// first sort value is the distance in meters.
func FindRestaurantsNear(ctx context.Context, client *elasticsearch.Client, index string, q models.RestaurantQuery) ([]models.RestaurantRecord, error) {
	req, err := BuildRestaurantSearch(index, q)
	if err != nil {
		return nil, err
	}

	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	records := make([]models.RestaurantRecord, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		src := hit.Source
		id := src.ID
		if id == "" {
			id = hit.ID
		}
		rec := models.RestaurantRecord{
			ID:          id,
			Name:        src.Name,
			CuisineType: src.CuisineType,
			Address:     src.Address,
			Rating:      src.Rating,
			PriceLevel:  src.PriceLevel,
			Latitude:    src.Location.Lat,
			Longitude:   src.Location.Lon,
		}
		if len(hit.Sort) > 0 {
			if d, ok := hit.Sort[0].(float64); ok {
				rec.DistanceFromVenue = d
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
