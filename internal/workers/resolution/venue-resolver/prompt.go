package venueresolver

import "dining-search/internal/common/validation"

const systemPrompt = `You extract the venue a diner wants to eat near.
Respond with one JSON object and nothing else:
{
  "venue_name": "exact venue name, e.g. Apollo Theatre or Odeon Leicester Square",
  "venue_type": "exactly theatre or cinema",
  "confidence": number between 0 and 1,
  "location_context": "any extra location wording, e.g. Leicester Square area"
}
If no theatre or cinema is mentioned respond with
{"venue_name": "", "venue_type": "", "confidence": 0, "location_context": ""}`

var fieldsSchema = validation.MustCompile("venue", validation.Object(map[string][]string{
	"venue_name":       {"string"},
	"venue_type":       {"string"},
	"confidence":       {"number"},
	"location_context": {"string"},
}))

type venueFields struct {
	VenueName       string  `json:"venue_name"`
	VenueType       string  `json:"venue_type"`
	Confidence      float64 `json:"confidence"`
	LocationContext string  `json:"location_context"`
}
