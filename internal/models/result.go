package models

// SearchResult is the terminal artifact of one orchestration run.
type SearchResult struct {
	RequestID           string               `json:"request_id,omitempty"`
	Query               string               `json:"query"`
	Venue               *VenueCandidate      `json:"venue,omitempty"`
	Preferences         PreferenceSet        `json:"preferences"`
	DateTime            TimeWindow           `json:"datetime"`
	Restaurants         []RestaurantRecord   `json:"restaurants"`
	GroupDisambiguation *GroupDisambiguation `json:"group_disambiguation,omitempty"`
	Error               string               `json:"error,omitempty"`
}
