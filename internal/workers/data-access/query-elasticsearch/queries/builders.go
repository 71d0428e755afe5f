package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"dining-search/internal/models"
)

var (
	ErrMissingIndex  = errors.New("index name is required")
	ErrMissingOrigin = errors.New("origin coordinates are required")
)

// BuildRestaurantSearch builds a geo-sorted restaurant search. Documents carry
// a geo_point "location", a keyword "cuisine_type" and nested "availability"
// slots of {date, time_slot}.
func BuildRestaurantSearch(index string, q models.RestaurantQuery) (*esapi.SearchRequest, error) {
	if index == "" {
		return nil, ErrMissingIndex
	}
	if q.Origin.IsZero() {
		return nil, ErrMissingOrigin
	}

	body, err := json.Marshal(buildRestaurantQuery(q))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	size := q.Limit
	return &esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}

func buildRestaurantQuery(q models.RestaurantQuery) map[string]interface{} {
	filterClauses := []interface{}{}
	mustNotClauses := []interface{}{}

	if len(q.CuisineTypes) > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               cuisineTerms(q.CuisineTypes),
				"minimum_should_match": 1,
			},
		})
	}
	if len(q.ExcludedCuisines) > 0 {
		mustNotClauses = append(mustNotClauses, cuisineTerms(q.ExcludedCuisines)...)
	}
	if slot := availabilityFilter(q); slot != nil {
		filterClauses = append(filterClauses, slot)
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter":   filterClauses,
				"must_not": mustNotClauses,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": map[string]interface{}{
						"lat": q.Origin.Latitude,
						"lon": q.Origin.Longitude,
					},
					"order":         "asc",
					"unit":          "m",
					"distance_type": "arc",
				},
			},
			map[string]interface{}{
				"rating": map[string]interface{}{"order": "desc", "missing": "_last"},
			},
		},
	}
}

func cuisineTerms(cuisines []string) []interface{} {
	terms := make([]interface{}, 0, len(cuisines))
	for _, c := range cuisines {
		terms = append(terms, map[string]interface{}{
			"term": map[string]interface{}{
				"cuisine_type": map[string]interface{}{
					"value":            c,
					"case_insensitive": true,
				},
			},
		})
	}
	return terms
}

// availabilityFilter keeps restaurants with at least one open slot inside
// the requested window.
func availabilityFilter(q models.RestaurantQuery) map[string]interface{} {
	var ranges []interface{}
	if dr := rangeOf(q.StartDate, q.EndDate); dr != nil {
		ranges = append(ranges, map[string]interface{}{
			"range": map[string]interface{}{"availability.date": dr},
		})
	}
	if tr := rangeOf(q.StartTime, q.EndTime); tr != nil {
		ranges = append(ranges, map[string]interface{}{
			"range": map[string]interface{}{"availability.time_slot": tr},
		})
	}
	if len(ranges) == 0 {
		return nil
	}
	return map[string]interface{}{
		"nested": map[string]interface{}{
			"path": "availability",
			"query": map[string]interface{}{
				"bool": map[string]interface{}{"filter": ranges},
			},
		},
	}
}

func rangeOf(from, to string) map[string]interface{} {
	if from == "" && to == "" {
		return nil
	}
	r := map[string]interface{}{}
	if from != "" {
		r["gte"] = from
	}
	if to != "" {
		r["lte"] = to
	}
	return r
}
