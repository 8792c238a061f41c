// Package planner turns chat messages into trip plans. A fixed pipeline of
// steps gathers destination facts, weather, hotels, routes and a budget,
// then a Generator assembles the final plan. The request classifier and the
// plan generator are both pluggable so the heuristics can be swapped
// without touching the pipeline.
package planner

import (
	"globetrotter/internal/models"
	"globetrotter/internal/tools"
)

// TripSlots are the structured trip parameters extracted from a message.
// Zero values mean "not mentioned"; FillDefaults resolves them before the
// pipeline runs.
type TripSlots struct {
	Origin            string   `json:"origin,omitempty"`
	Destination       string   `json:"destination,omitempty"`
	BudgetType        string   `json:"budget_type,omitempty"` // economical, moderate, luxury
	DurationDays      int      `json:"duration_days,omitempty"`
	Travelers         int      `json:"travelers,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	TransportMode     string   `json:"transport_preference,omitempty"` // bus, train, flight, car
	AccommodationType string   `json:"accommodation_type,omitempty"`   // budget, mid-range, luxury
}

// Default slots applied when extraction leaves a field empty.
const (
	defaultDestination  = "Paris"
	defaultBudgetType   = "moderate"
	defaultDuration     = 5
	defaultTravelers    = 2
	defaultAccomodation = "mid-range"
)

// FillDefaults returns a copy with unset slots resolved to defaults.
func (s TripSlots) FillDefaults() TripSlots {
	if s.Destination == "" {
		s.Destination = defaultDestination
	}
	if s.BudgetType == "" {
		s.BudgetType = defaultBudgetType
	}
	if s.DurationDays <= 0 {
		s.DurationDays = defaultDuration
	}
	if s.Travelers <= 0 {
		s.Travelers = defaultTravelers
	}
	if s.AccommodationType == "" {
		s.AccommodationType = defaultAccomodation
	}
	if len(s.Interests) == 0 {
		s.Interests = []string{"cultural", "food"}
	}
	return s
}

// State is the record threaded through the pipeline. Steps receive it by
// value and return an updated copy, so a step never observes mutations made
// by a later one and a failed run leaves the last good state intact.
type State struct {
	RunID          string
	UserID         string
	ConversationID string
	Message        string
	Preferences    map[string]interface{}

	// Loaded by the context step.
	UserContext *models.UserContext
	Blacklist   []string

	Slots TripSlots

	// Accumulated by the gathering steps.
	DestinationInfo string
	Weather         *tools.WeatherReport
	Hotels          []models.Hotel
	Route           *tools.RoutePlan
	Budget          *tools.BudgetEstimate

	// Produced by the itinerary step.
	Plan *models.TripPlan
}
