package models

import "time"

// UserPreferences holds a user's travel preferences. All fields are
// optional; zero values mean "not stated".
type UserPreferences struct {
	BudgetRange                map[string]float64 `bson:"budget_range,omitempty" json:"budget_range,omitempty"` // min, max
	PreferredAccommodationType string             `bson:"preferred_accommodation_type,omitempty" json:"preferred_accommodation_type,omitempty"`
	TravelStyle                string             `bson:"travel_style,omitempty" json:"travel_style,omitempty"` // luxury, budget, adventure, cultural
	DietaryRestrictions        []string           `bson:"dietary_restrictions,omitempty" json:"dietary_restrictions"`
	AccessibilityNeeds         []string           `bson:"accessibility_needs,omitempty" json:"accessibility_needs"`
	PreferredActivities        []string           `bson:"preferred_activities,omitempty" json:"preferred_activities"`
	AvoidedActivities          []string           `bson:"avoided_activities,omitempty" json:"avoided_activities"`
	PreferredClimate           string             `bson:"preferred_climate,omitempty" json:"preferred_climate,omitempty"` // tropical, temperate, cold
	GroupSize                  int                `bson:"group_size,omitempty" json:"group_size,omitempty"`
	AgeGroup                   string             `bson:"age_group,omitempty" json:"age_group,omitempty"` // young_adult, family, senior
	LanguagePreferences        []string           `bson:"language_preferences,omitempty" json:"language_preferences"`
	UpdatedAt                  time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ConversationEntry is one user/assistant exchange kept in the rolling
// per-user history.
type ConversationEntry struct {
	Timestamp   time.Time              `bson:"timestamp" json:"timestamp"`
	UserMessage string                 `bson:"user_message" json:"user_message"`
	AIResponse  string                 `bson:"ai_response" json:"ai_response"`
	TripData    map[string]interface{} `bson:"trip_data,omitempty" json:"trip_data,omitempty"`
}

// UserContext is the per-user planning context persisted in Mongo and
// cached per session in Redis.
type UserContext struct {
	UserID               string                 `bson:"user_id" json:"user_id"`
	SessionID            string                 `bson:"session_id,omitempty" json:"session_id,omitempty"`
	CurrentTripPlanning  map[string]interface{} `bson:"current_trip_planning,omitempty" json:"current_trip_planning,omitempty"`
	PreviousDestinations []string               `bson:"previous_destinations" json:"previous_destinations"`
	ConversationHistory  []ConversationEntry    `bson:"conversation_history" json:"conversation_history"`
	LastActivity         time.Time              `bson:"last_activity" json:"last_activity"`
	Preferences          map[string]interface{} `bson:"preferences,omitempty" json:"preferences"`
}

// PreferencesRequest is the body of POST /api/preferences/save.
type PreferencesRequest struct {
	UserID      string                 `json:"user_id"`
	Preferences map[string]interface{} `json:"preferences"`
}

// Recommendations is the payload of GET /api/recommendations/:user_id.
type Recommendations struct {
	SuggestedDestinations   []string `json:"suggested_destinations"`
	RecommendedActivities   []string `json:"recommended_activities"`
	BudgetTips              []string `json:"budget_tips"`
	SeasonalRecommendations []string `json:"seasonal_recommendations"`
}
