package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"globetrotter/internal/llm"
	"globetrotter/internal/models"
)

// severityRank orders alert severities, most urgent first.
var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

// alertCategories fixes the category order for alert aggregation.
var alertCategories = []string{
	"weather_alerts",
	"travel_advisories",
	"health_alerts",
	"security_alerts",
	"general_alerts",
}

const reasoningFallback = "AI analysis temporarily unavailable. Recommendations are based on price, rating, and location optimization."

// AdvancedAIService powers the optimization endpoints: hotel value
// ranking, travel alerts, AI travel tips, and itinerary timing. The LLM
// is optional; scoring and alerts work without one.
type AdvancedAIService struct {
	llm llm.Provider

	mu      sync.RWMutex
	profile *ScoringProfile
}

// NewAdvancedAIService creates the service. provider may be nil, in which
// case LLM-backed responses degrade to static fallbacks.
func NewAdvancedAIService(provider llm.Provider, profile *ScoringProfile) *AdvancedAIService {
	if profile == nil {
		profile = DefaultScoringProfile()
	}
	return &AdvancedAIService{llm: provider, profile: profile}
}

// Profile returns the active scoring profile.
func (s *AdvancedAIService) Profile() *ScoringProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// ReloadProfile swaps in a new scoring profile from the YAML file at path.
func (s *AdvancedAIService) ReloadProfile(path string) error {
	profile, err := LoadScoringProfile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	log.Printf("🔄 [AI] Scoring profile reloaded from %s", path)
	return nil
}

// OptimizeHotels ranks the supplied hotels by weighted value for money
// and asks the LLM to explain the top picks.
func (s *AdvancedAIService) OptimizeHotels(ctx context.Context, req *models.OptimizeHotelsRequest) *models.HotelOptimizationResult {
	if len(req.Hotels) == 0 {
		return &models.HotelOptimizationResult{Status: "error", Message: "No hotels provided"}
	}

	profile := s.Profile()
	travelStyle, _ := req.Preferences["travel_style"].(string)
	weights := profile.WeightsFor(strings.ToLower(travelStyle), preferenceBudgetMax(req.Preferences))

	scored := make([]models.ScoredHotel, 0, len(req.Hotels))
	for _, hotel := range req.Hotels {
		breakdown, total, value := scoreHotel(hotel, weights, req.BudgetMax, profile)
		scored = append(scored, models.ScoredHotel{
			Hotel:          hotel,
			AIScore:        total,
			ScoreBreakdown: breakdown,
			ValueRating:    value,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].AIScore > scored[j].AIScore })

	top := scored
	if len(top) > 5 {
		top = top[:5]
	}

	return &models.HotelOptimizationResult{
		Status:              "success",
		RecommendedHotels:   top,
		BestValuePick:       &top[0],
		AIReasoning:         s.recommendationReasoning(ctx, top, req.Preferences, req.BudgetMax),
		OptimizationWeights: weights,
		TotalAnalyzed:       len(req.Hotels),
	}
}

// preferenceBudgetMax reads budget_max from loosely typed preferences,
// defaulting to 1000.
func preferenceBudgetMax(prefs map[string]interface{}) float64 {
	switch v := prefs["budget_max"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f
		}
	}
	return 1000
}

// scoreHotel computes the per-dimension scores and the weighted total for
// one hotel. Zero fields fall back to neutral defaults.
func scoreHotel(hotel models.Hotel, weights models.ScoringWeights, budgetMax float64, profile *ScoringProfile) (models.ScoreBreakdown, float64, float64) {
	price := hotel.PricePerNight
	if price <= 0 {
		price = 100
	}
	rating := hotel.Rating
	if rating <= 0 {
		rating = 3.0
	}
	distance := hotel.DistanceFromCenterKM
	if distance <= 0 {
		distance = 5.0
	}

	priceScore := 0.5
	if budgetMax > 0 {
		priceScore = (budgetMax - price) / budgetMax
		if priceScore < 0 {
			priceScore = 0
		}
	}

	ratingScore := rating / 5.0
	if ratingScore > 1 {
		ratingScore = 1
	}

	maxDist := profile.MaxCenterDistanceKM
	locationScore := (maxDist - distance) / maxDist
	if locationScore < 0 {
		locationScore = 0
	}

	matched := 0
	for _, amenity := range hotel.Amenities {
		for _, important := range profile.ImportantAmenities {
			if amenity == important {
				matched++
				break
			}
		}
	}
	amenitiesScore := float64(matched) / float64(len(profile.ImportantAmenities))

	breakdown := models.ScoreBreakdown{
		PriceScore:     priceScore,
		RatingScore:    ratingScore,
		LocationScore:  locationScore,
		AmenitiesScore: amenitiesScore,
	}
	total := weights.Price*priceScore +
		weights.Rating*ratingScore +
		weights.Location*locationScore +
		weights.Amenities*amenitiesScore
	value := (ratingScore + locationScore + amenitiesScore) / (price / 100)

	return breakdown, total, value
}

// recommendationReasoning asks the LLM to justify the top picks. Any
// failure degrades to a canned explanation.
func (s *AdvancedAIService) recommendationReasoning(ctx context.Context, top []models.ScoredHotel, prefs map[string]interface{}, budgetMax float64) string {
	if s.llm == nil {
		return reasoningFallback
	}

	type hotelSummary struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Rating      float64 `json:"rating"`
		Distance    float64 `json:"distance"`
		AIScore     float64 `json:"ai_score"`
		ValueRating float64 `json:"value_rating"`
	}
	summaries := make([]hotelSummary, 0, 3)
	for i, h := range top {
		if i == 3 {
			break
		}
		summaries = append(summaries, hotelSummary{
			Name:        h.Name,
			Price:       h.PricePerNight,
			Rating:      h.Rating,
			Distance:    h.DistanceFromCenterKM,
			AIScore:     h.AIScore,
			ValueRating: h.ValueRating,
		})
	}
	prefsJSON, _ := json.Marshal(prefs)
	hotelsJSON, _ := json.MarshalIndent(summaries, "", "  ")

	response, err := s.complete(ctx, llm.Prompt{
		System: "You are an expert travel advisor. Analyze the hotel recommendations and provide clear, helpful reasoning " +
			"for why these hotels are the best choices based on the user's preferences and budget. " +
			"Be specific about the trade-offs and highlight the best value options.",
		User: fmt.Sprintf("User preferences: %s\nBudget maximum: $%.2f\nTop recommended hotels: %s\n\n"+
			"Provide a clear explanation of why these hotels are recommended, focusing on value and fit with preferences.",
			prefsJSON, budgetMax, hotelsJSON),
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("⚠️ [AI] Recommendation reasoning failed: %v", err)
		return reasoningFallback
	}
	return response
}

// TravelAlerts aggregates advisories for the requested destinations and
// orders them by severity.
func (s *AdvancedAIService) TravelAlerts(_ context.Context, req *models.TravelAlertsRequest) *models.TravelAlertsResult {
	byCategory := map[string][]models.TravelAlert{}
	for _, category := range alertCategories {
		byCategory[category] = []models.TravelAlert{}
	}

	for _, destination := range req.Destinations {
		byCategory["weather_alerts"] = append(byCategory["weather_alerts"], weatherAlerts(destination)...)
		byCategory["travel_advisories"] = append(byCategory["travel_advisories"], travelAdvisories(destination)...)
		byCategory["health_alerts"] = append(byCategory["health_alerts"], healthAlerts(destination, time.Now().UTC())...)
	}

	var prioritized []models.TravelAlert
	for _, category := range alertCategories {
		for _, alert := range byCategory[category] {
			alert.Category = category
			prioritized = append(prioritized, alert)
		}
	}
	sort.SliceStable(prioritized, func(i, j int) bool {
		return alertSeverityRank(prioritized[i].Severity) < alertSeverityRank(prioritized[j].Severity)
	})

	critical := 0
	for _, alert := range prioritized {
		if alert.Severity == "critical" {
			critical++
		}
	}

	return &models.TravelAlertsResult{
		Status:            "success",
		AlertsByCategory:  byCategory,
		PrioritizedAlerts: prioritized,
		TotalAlerts:       len(prioritized),
		CriticalCount:     critical,
	}
}

func alertSeverityRank(severity string) int {
	if rank, ok := severityRank[severity]; ok {
		return rank
	}
	return severityRank["low"]
}

// weatherAlerts simulates a weather advisory feed.
func weatherAlerts(destination string) []models.TravelAlert {
	return []models.TravelAlert{{
		Type:        "weather",
		Destination: destination,
		Severity:    "medium",
		Title:       fmt.Sprintf("Rainy season in %s", destination),
		Description: fmt.Sprintf("Heavy rainfall expected in %s during your travel dates. Pack waterproof clothing.", destination),
		StartDate:   "2024-12-01",
		EndDate:     "2024-12-31",
		Recommendations: []string{
			"Pack umbrella",
			"Waterproof shoes",
			"Indoor activities",
		},
	}}
}

// travelAdvisories simulates a government advisory feed.
func travelAdvisories(destination string) []models.TravelAlert {
	return []models.TravelAlert{{
		Type:        "advisory",
		Destination: destination,
		Severity:    "low",
		Title:       fmt.Sprintf("General travel advisory for %s", destination),
		Description: fmt.Sprintf("Exercise normal precautions when traveling to %s.", destination),
		IssuedDate:  "2024-01-01",
		Recommendations: []string{
			"Keep documents safe",
			"Stay aware of surroundings",
		},
	}}
}

// healthAlerts emits seasonal health advice. Only summer heat warnings
// are modeled.
func healthAlerts(destination string, now time.Time) []models.TravelAlert {
	switch now.Month() {
	case time.June, time.July, time.August:
		return []models.TravelAlert{{
			Type:        "health",
			Destination: destination,
			Severity:    "low",
			Title:       "Summer health precautions",
			Description: "High temperatures expected. Stay hydrated and use sun protection.",
			Recommendations: []string{
				"Drink plenty of water",
				"Use sunscreen",
				"Avoid midday sun",
			},
		}}
	}
	return nil
}

// TravelTips generates destination tips with the LLM, falling back to a
// static list when no provider is available.
func (s *AdvancedAIService) TravelTips(ctx context.Context, req *models.TravelTipsRequest) *models.TravelTipsResult {
	if s.llm == nil {
		return &models.TravelTipsResult{
			Status:       "error",
			Message:      "LLM provider not configured",
			FallbackTips: fallbackTips(req.Destination),
		}
	}

	response, err := s.complete(ctx, llm.Prompt{
		System: "You are an expert travel advisor with deep knowledge of destinations worldwide. " +
			"Generate practical, personalized travel tips that are specific to the destination, travel style, and budget.",
		User: fmt.Sprintf(`Destination: %s
Travel style: %s
Duration: %d days
Budget: $%.2f

Generate 8-10 specific, actionable travel tips covering:
1. Local customs and etiquette
2. Money-saving tips
3. Hidden gems and local experiences
4. Food recommendations
5. Transportation tips
6. Safety and health advice
7. Best times to visit attractions
8. Cultural insights

Format as a JSON array of tip objects with "category", "tip", and "priority" fields.`,
			req.Destination, req.TravelStyle, req.Duration, req.Budget),
		Temperature: 0.3,
		JSONOnly:    true,
	})
	if err != nil {
		log.Printf("⚠️ [AI] Travel tips generation failed: %v", err)
		return &models.TravelTipsResult{
			Status:       "error",
			Message:      err.Error(),
			FallbackTips: fallbackTips(req.Destination),
		}
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)
	var tips []models.TravelTip
	if err := json.Unmarshal([]byte(response), &tips); err == nil {
		return &models.TravelTipsResult{
			Status:      "success",
			Destination: req.Destination,
			Tips:        tips,
			GeneratedAt: generatedAt,
		}
	}
	return &models.TravelTipsResult{
		Status:      "success",
		Destination: req.Destination,
		TipsText:    response,
		GeneratedAt: generatedAt,
	}
}

// fallbackTips are served when tip generation is unavailable.
func fallbackTips(destination string) []models.TravelTip {
	return []models.TravelTip{
		{Category: "general", Tip: fmt.Sprintf("Research local customs and traditions before visiting %s", destination), Priority: "high"},
		{Category: "money", Tip: "Use local currency and compare exchange rates", Priority: "medium"},
		{Category: "safety", Tip: "Keep copies of important documents in separate locations", Priority: "high"},
		{Category: "food", Tip: "Try local street food from busy stalls for authentic experiences", Priority: "medium"},
	}
}

// OptimizeItinerary asks the LLM to reorder and retime an itinerary for
// crowds and travel distance.
func (s *AdvancedAIService) OptimizeItinerary(ctx context.Context, req *models.OptimizeItineraryRequest) *models.ItineraryOptimizationResult {
	if s.llm == nil {
		return &models.ItineraryOptimizationResult{
			Status:            "error",
			Message:           "LLM provider not configured",
			OriginalItinerary: req.Itinerary,
		}
	}

	itineraryJSON, _ := json.Marshal(req.Itinerary)
	prefsJSON, _ := json.Marshal(req.Preferences)

	response, err := s.complete(ctx, llm.Prompt{
		System: "You are an expert travel planner. Optimize the timing and sequence of activities in the itinerary " +
			"to minimize travel time, avoid crowds, and maximize enjoyment based on preferences.",
		User: fmt.Sprintf(`Current itinerary: %s
User preferences: %s

Optimize the timing and provide:
1. Suggested time slots for each activity
2. Reasoning for timing choices
3. Alternative options for flexibility
4. Crowd avoidance strategies

Return optimized itinerary with timing recommendations.`, itineraryJSON, prefsJSON),
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("⚠️ [AI] Itinerary optimization failed: %v", err)
		return &models.ItineraryOptimizationResult{
			Status:            "error",
			Message:           err.Error(),
			OriginalItinerary: req.Itinerary,
		}
	}

	return &models.ItineraryOptimizationResult{
		Status:              "success",
		OptimizedItinerary:  response,
		OptimizationApplied: true,
		GeneratedAt:         time.Now().UTC().Format(time.RFC3339),
	}
}

// complete delegates to the LLM and records call metrics.
func (s *AdvancedAIService) complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	start := time.Now()
	response, err := s.llm.Complete(ctx, prompt)
	if m := GetMetrics(); m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.RecordLLMCall(s.llm.Name(), status, time.Since(start).Seconds())
	}
	return response, err
}
