package models

// TransportType identifies how travelers move between cities.
type TransportType string

const (
	TransportTrain  TransportType = "train"
	TransportBus    TransportType = "bus"
	TransportFlight TransportType = "flight"
)

// PlanActivity is a single scheduled item inside a generated day plan.
type PlanActivity struct {
	ActivityID     string             `json:"activity_id"`
	Time           string             `json:"time"` // HH:MM
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	EstimatedCost  float64            `json:"estimated_cost"`
	Currency       string             `json:"currency"`
	CrowdScore     *float64           `json:"crowd_score,omitempty"` // 0-100
	WeatherSummary string             `json:"weather_summary,omitempty"`
	PlaceCoords    map[string]float64 `json:"place_coords,omitempty"` // lat, lng
	Estimated      bool               `json:"estimated"`
}

// TransportOption is one way to travel a leg between two cities.
type TransportOption struct {
	ID              string  `json:"id"`
	DepartureTime   string  `json:"departure_time"` // RFC 3339
	ArrivalTime     string  `json:"arrival_time"`   // RFC 3339
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Provider        string  `json:"provider"`
	BookingLink     string  `json:"booking_link,omitempty"`
	Estimated       bool    `json:"estimated"`
}

// Hotel is a lodging option attached to a city visit.
type Hotel struct {
	HotelID              string   `json:"hotel_id"`
	Name                 string   `json:"name"`
	Rating               float64  `json:"rating"` // 1-5
	PricePerNight        float64  `json:"price_per_night"`
	Currency             string   `json:"currency"`
	DistanceFromCenterKM float64  `json:"distance_from_center_km"`
	Amenities            []string `json:"amenities,omitempty"`
	Blacklisted          bool     `json:"blacklisted"`
	EcoRating            *float64 `json:"eco_rating,omitempty"` // 1-5 when known
}

// DayPlan is one day of a generated itinerary.
type DayPlan struct {
	DayNumber        int            `json:"day_number"`
	Date             string         `json:"date"` // YYYY-MM-DD
	Activities       []PlanActivity `json:"activities"`
	DailyBudgetTotal float64        `json:"daily_budget_total"`
}

// CityVisit covers one city segment of a trip plan.
type CityVisit struct {
	CityName         string                            `json:"city_name"`
	Country          string                            `json:"country"`
	Arrival          map[string]string                 `json:"arrival"`   // date, time, by
	Departure        map[string]string                 `json:"departure"` // date, time, by
	Hotels           []Hotel                           `json:"hotels"`
	Days             []DayPlan                         `json:"days"`
	TransportOptions map[TransportType][]TransportOption `json:"transport_options,omitempty"`
}

// TripPlan is the structured itinerary produced by the planner.
type TripPlan struct {
	TripTitle   string      `json:"trip_title"`
	TotalDays   int         `json:"total_days"`
	StartDate   string      `json:"start_date"` // YYYY-MM-DD
	EndDate     string      `json:"end_date"`   // YYYY-MM-DD
	TotalBudget float64     `json:"total_budget"`
	Currency    string      `json:"currency"`
	EcoMode     bool        `json:"eco_mode"`
	Cities      []CityVisit `json:"cities"`
}

// UIActions tells the frontend how to present a planner response.
type UIActions struct {
	CollapseChat     bool               `json:"collapse_chat"`
	AnimateItinerary string             `json:"animate_itinerary"` // drip, fade, slide
	MapCenter        map[string]float64 `json:"map_center,omitempty"`
	OpenPanel        string             `json:"open_panel"` // itinerary, search, none
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message        string                 `json:"message"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	UserID         string                 `json:"user_id"`
	Context        map[string]interface{} `json:"context,omitempty"`
	Preferences    map[string]interface{} `json:"preferences,omitempty"`
	Stream         bool                   `json:"stream"`
}

// ChatResponse is what the assistant returns for a chat turn.
type ChatResponse struct {
	Message        string     `json:"message"`
	ConversationID string     `json:"conversation_id"`
	UIActions      *UIActions `json:"ui_actions,omitempty"`
	TripPlan       *TripPlan  `json:"trip_plan,omitempty"`
	Timestamp      string     `json:"timestamp"`
}

// GenerateItineraryRequest carries the free-form trip brief for the
// standalone itinerary endpoint. All fields are optional.
type GenerateItineraryRequest struct {
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Travelers   int    `json:"travelers,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Preferences string `json:"preferences,omitempty"`
}

// GenerateItineraryResponse wraps the raw model output for the itinerary
// endpoint.
type GenerateItineraryResponse struct {
	Status    string `json:"status"`
	Itinerary string `json:"itinerary,omitempty"`
	Message   string `json:"message,omitempty"`
}
