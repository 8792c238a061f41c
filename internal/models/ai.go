package models

// ScoringWeights are the relative weights used when ranking hotels.
// They should sum to roughly 1.0.
type ScoringWeights struct {
	Price     float64 `json:"price" yaml:"price"`
	Rating    float64 `json:"rating" yaml:"rating"`
	Location  float64 `json:"location" yaml:"location"`
	Amenities float64 `json:"amenities" yaml:"amenities"`
}

// ScoreBreakdown shows the per-dimension scores behind a hotel's total.
type ScoreBreakdown struct {
	PriceScore     float64 `json:"price_score"`
	RatingScore    float64 `json:"rating_score"`
	LocationScore  float64 `json:"location_score"`
	AmenitiesScore float64 `json:"amenities_score"`
}

// ScoredHotel is a hotel annotated with its optimization scores.
type ScoredHotel struct {
	Hotel
	AIScore        float64        `json:"ai_score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
	ValueRating    float64        `json:"value_rating"`
}

// OptimizeHotelsRequest is the payload of POST /api/ai/optimize-hotels.
type OptimizeHotelsRequest struct {
	Hotels      []Hotel                `json:"hotels"`
	BudgetMax   float64                `json:"budget_max"`
	Preferences map[string]interface{} `json:"preferences"`
}

// HotelOptimizationResult ranks hotels by weighted value for money.
type HotelOptimizationResult struct {
	Status              string         `json:"status"`
	RecommendedHotels   []ScoredHotel  `json:"recommended_hotels,omitempty"`
	BestValuePick       *ScoredHotel   `json:"best_value_pick,omitempty"`
	AIReasoning         string         `json:"ai_reasoning,omitempty"`
	OptimizationWeights ScoringWeights `json:"optimization_weights,omitempty"`
	TotalAnalyzed       int            `json:"total_analyzed,omitempty"`
	Message             string         `json:"message,omitempty"`
}

// TravelAlert is a single advisory for a destination.
type TravelAlert struct {
	Type            string   `json:"type"`
	Destination     string   `json:"destination"`
	Severity        string   `json:"severity"` // critical, high, medium, low
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StartDate       string   `json:"start_date,omitempty"`
	EndDate         string   `json:"end_date,omitempty"`
	IssuedDate      string   `json:"issued_date,omitempty"`
	Category        string   `json:"category,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// TravelAlertsRequest is the payload of POST /api/ai/travel-alerts.
type TravelAlertsRequest struct {
	Destinations []string          `json:"destinations"`
	TravelDates  map[string]string `json:"travel_dates,omitempty"`
}

// TravelAlertsResult groups alerts by category and by severity.
type TravelAlertsResult struct {
	Status            string                   `json:"status"`
	AlertsByCategory  map[string][]TravelAlert `json:"alerts_by_category,omitempty"`
	PrioritizedAlerts []TravelAlert            `json:"prioritized_alerts,omitempty"`
	TotalAlerts       int                      `json:"total_alerts"`
	CriticalCount     int                      `json:"critical_count"`
	Message           string                   `json:"message,omitempty"`
}

// TravelTip is one actionable piece of advice.
type TravelTip struct {
	Category string `json:"category"`
	Tip      string `json:"tip"`
	Priority string `json:"priority"`
}

// TravelTipsRequest is the payload of POST /api/ai/travel-tips.
type TravelTipsRequest struct {
	Destination string  `json:"destination"`
	TravelStyle string  `json:"travel_style"`
	Duration    int     `json:"duration"`
	Budget      float64 `json:"budget"`
}

// TravelTipsResult carries generated tips, either structured or as raw
// text when the model did not return parseable JSON.
type TravelTipsResult struct {
	Status       string      `json:"status"`
	Destination  string      `json:"destination,omitempty"`
	Tips         []TravelTip `json:"tips,omitempty"`
	TipsText     string      `json:"tips_text,omitempty"`
	GeneratedAt  string      `json:"generated_at,omitempty"`
	Message      string      `json:"message,omitempty"`
	FallbackTips []TravelTip `json:"fallback_tips,omitempty"`
}

// OptimizeItineraryRequest is the payload of POST /api/ai/optimize-itinerary.
type OptimizeItineraryRequest struct {
	Itinerary   map[string]interface{} `json:"itinerary"`
	Preferences map[string]interface{} `json:"preferences"`
}

// ItineraryOptimizationResult holds the rescheduling advice for an
// itinerary.
type ItineraryOptimizationResult struct {
	Status              string                 `json:"status"`
	OptimizedItinerary  string                 `json:"optimized_itinerary,omitempty"`
	OptimizationApplied bool                   `json:"optimization_applied"`
	GeneratedAt         string                 `json:"generated_at,omitempty"`
	Message             string                 `json:"message,omitempty"`
	OriginalItinerary   map[string]interface{} `json:"original_itinerary,omitempty"`
}
