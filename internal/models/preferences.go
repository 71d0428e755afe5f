package models

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalCuisine returns the canonical casing used for set membership.
// Casers are stateful, so one is built per call.
func CanonicalCuisine(s string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}

// CanonicalDietary returns the canonical casing for a dietary requirement.
func CanonicalDietary(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StringSet is a case-insensitive set that keeps insertion order and a
// canonical form for every element.
type StringSet struct {
	canon func(string) string
	index map[string]struct{}
	items []string
}

func NewStringSet(canon func(string) string, values ...string) *StringSet {
	s := &StringSet{canon: canon, index: make(map[string]struct{})}
	s.Add(values...)
	return s
}

func NewCuisineSet(values ...string) *StringSet {
	return NewStringSet(CanonicalCuisine, values...)
}

func NewDietarySet(values ...string) *StringSet {
	return NewStringSet(CanonicalDietary, values...)
}

// Add inserts values, ignoring blanks and case-insensitive duplicates.
func (s *StringSet) Add(values ...string) {
	for _, v := range values {
		c := s.canon(v)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.items = append(s.items, c)
	}
}

func (s *StringSet) Contains(v string) bool {
	_, ok := s.index[strings.ToLower(s.canon(v))]
	return ok
}

func (s *StringSet) Len() int { return len(s.items) }

// Values returns the elements in insertion order.
func (s *StringSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the elements in lexical order.
func (s *StringSet) Sorted() []string {
	out := s.Values()
	sort.Strings(out)
	return out
}

// GroupRef identifies the group a query was made on behalf of.
type GroupRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// PreferenceSet is the merged diner preference facet.
type PreferenceSet struct {
	DietaryRequirements []string  `json:"dietary_requirements"`
	ExcludedCuisines    []string  `json:"excluded_cuisines"`
	CuisineTypes        []string  `json:"cuisine_types"`
	MealTime            MealTime  `json:"meal_time"`
	Group               *GroupRef `json:"group,omitempty"`
	Error               string    `json:"error,omitempty"`
}

// EmptyPreferences returns a preference set with non-nil empty lists.
func EmptyPreferences() PreferenceSet {
	return PreferenceSet{
		DietaryRequirements: []string{},
		ExcludedCuisines:    []string{},
		CuisineTypes:        []string{},
	}
}

// MemberPreferences is one user's stored profile.
type MemberPreferences struct {
	UserID              string   `json:"user_id"`
	DietaryRequirements []string `json:"dietary_requirements"`
	ExcludedCuisines    []string `json:"excluded_cuisines"`
}

// Group is a stored group of users.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// GroupSummary is the id/name pair offered for disambiguation.
type GroupSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GroupDisambiguation is returned when a query carries a bare group sigil.
type GroupDisambiguation struct {
	AvailableGroups []GroupSummary `json:"available_groups"`
	Message         string         `json:"message"`
}
