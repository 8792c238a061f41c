package tools

import (
	"strings"
	"testing"
	"time"

	"globetrotter/internal/models"
)

// TestSearchHotels tests the simulated listing shape and sort orders.
func TestSearchHotels(t *testing.T) {
	hotels := SearchHotels("Goa", "price", 5)
	if len(hotels) != 5 {
		t.Fatalf("Expected 5 hotels, got %d", len(hotels))
	}
	if hotels[0].HotelID != "hotel_1" {
		t.Errorf("HotelID = %q, expected hotel_1", hotels[0].HotelID)
	}
	if hotels[0].Name != "Hotel Goa 1" {
		t.Errorf("Name = %q, expected Hotel Goa 1", hotels[0].Name)
	}
	if hotels[0].PricePerNight != 100 {
		t.Errorf("PricePerNight = %v, expected 100", hotels[0].PricePerNight)
	}
	if hotels[4].PricePerNight != 180 {
		t.Errorf("Last PricePerNight = %v, expected 180", hotels[4].PricePerNight)
	}
	if hotels[0].Currency != "USD" {
		t.Errorf("Currency = %q, expected USD", hotels[0].Currency)
	}
	if len(hotels[0].Amenities) != 3 {
		t.Errorf("Expected 3 amenities, got %v", hotels[0].Amenities)
	}

	// Price ascending
	for i := 1; i < len(hotels); i++ {
		if hotels[i].PricePerNight < hotels[i-1].PricePerNight {
			t.Errorf("Hotels not sorted by price: %v before %v", hotels[i-1].PricePerNight, hotels[i].PricePerNight)
		}
	}
}

// TestSearchHotelsSortOrders tests the rating and distance orderings.
func TestSearchHotelsSortOrders(t *testing.T) {
	byRating := SearchHotels("Goa", "rating", 5)
	if byRating[0].Rating != 4.5 || byRating[0].HotelID != "hotel_2" {
		t.Errorf("Top by rating = %s (%v), expected hotel_2 (4.5)", byRating[0].HotelID, byRating[0].Rating)
	}
	for i := 1; i < len(byRating); i++ {
		if byRating[i].Rating > byRating[i-1].Rating {
			t.Errorf("Hotels not sorted by rating: %v before %v", byRating[i-1].Rating, byRating[i].Rating)
		}
	}

	byDistance := SearchHotels("Goa", "distance", 5)
	if byDistance[0].DistanceFromCenterKM != 1.5 {
		t.Errorf("Closest distance = %v, expected 1.5", byDistance[0].DistanceFromCenterKM)
	}
}

// TestSearchHotelsDefaultCount tests the fallback result count.
func TestSearchHotelsDefaultCount(t *testing.T) {
	if n := len(SearchHotels("Goa", "", 0)); n != 10 {
		t.Errorf("Expected 10 hotels by default, got %d", n)
	}
}

// TestPlanRoute tests duration and cost per transport mode.
func TestPlanRoute(t *testing.T) {
	tests := []struct {
		mode             string
		expectedMode     string
		expectedDuration int
		expectedCost     float64
	}{
		{"flying", "flying", 40, 200},
		{"driving", "driving", 120, 50},
		{"train", "train", 150, 80},
		{"bus", "bus", 180, 30},
		{"teleport", "bus", 180, 30},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			plan := PlanRoute("Surat", "Goa", tt.mode)
			if plan.Mode != tt.expectedMode {
				t.Errorf("Mode = %q, expected %q", plan.Mode, tt.expectedMode)
			}
			if plan.DurationMinutes != tt.expectedDuration {
				t.Errorf("DurationMinutes = %d, expected %d", plan.DurationMinutes, tt.expectedDuration)
			}
			if plan.EstimatedCost != tt.expectedCost {
				t.Errorf("EstimatedCost = %v, expected %v", plan.EstimatedCost, tt.expectedCost)
			}
			if plan.DistanceKM != 100 {
				t.Errorf("DistanceKM = %v, expected 100", plan.DistanceKM)
			}
			if len(plan.Routes) != 1 {
				t.Fatalf("Expected 1 route leg, got %d", len(plan.Routes))
			}
			leg := plan.Routes[0]
			if leg.RouteID != "route_1_"+tt.expectedMode {
				t.Errorf("RouteID = %q, expected route_1_%s", leg.RouteID, tt.expectedMode)
			}
			if len(leg.Steps) != 3 {
				t.Errorf("Expected 3 steps, got %d", len(leg.Steps))
			}
		})
	}
}

// TestEstimateBudgetDefaults tests the projection with no inputs.
func TestEstimateBudgetDefaults(t *testing.T) {
	estimate := EstimateBudget(nil, nil, 5)

	if estimate.Breakdown.Accommodation != 500 {
		t.Errorf("Accommodation = %v, expected 500", estimate.Breakdown.Accommodation)
	}
	if estimate.Breakdown.Transportation != 100 {
		t.Errorf("Transportation = %v, expected 100", estimate.Breakdown.Transportation)
	}
	if estimate.Breakdown.Food != 250 {
		t.Errorf("Food = %v, expected 250", estimate.Breakdown.Food)
	}
	if estimate.Breakdown.Activities != 200 {
		t.Errorf("Activities = %v, expected 200", estimate.Breakdown.Activities)
	}
	if estimate.TotalBudget != 1050 {
		t.Errorf("TotalBudget = %v, expected 1050", estimate.TotalBudget)
	}
	if estimate.DailyAverage != 210 {
		t.Errorf("DailyAverage = %v, expected 210", estimate.DailyAverage)
	}
	// 210/day trips the high-budget alert
	if len(estimate.BudgetAlerts) != 1 || !strings.Contains(estimate.BudgetAlerts[0], "High daily budget") {
		t.Errorf("Unexpected alerts: %v", estimate.BudgetAlerts)
	}
}

// TestEstimateBudgetFromInputs tests averaging over hotels and summing
// routes.
func TestEstimateBudgetFromInputs(t *testing.T) {
	hotels := []models.Hotel{
		{PricePerNight: 100},
		{PricePerNight: 200},
	}
	routes := []RoutePlan{
		{EstimatedCost: 200},
		{EstimatedCost: 30},
	}

	estimate := EstimateBudget(hotels, routes, 4)
	if estimate.Breakdown.Accommodation != 600 {
		t.Errorf("Accommodation = %v, expected 600", estimate.Breakdown.Accommodation)
	}
	if estimate.Breakdown.Transportation != 230 {
		t.Errorf("Transportation = %v, expected 230", estimate.Breakdown.Transportation)
	}
	if estimate.TotalBudget != 1190 {
		t.Errorf("TotalBudget = %v, expected 1190", estimate.TotalBudget)
	}
	if estimate.DurationDays != 4 {
		t.Errorf("DurationDays = %d, expected 4", estimate.DurationDays)
	}
}

// TestEstimateBudgetFallbacks tests zero-priced inputs and the day default.
func TestEstimateBudgetFallbacks(t *testing.T) {
	hotels := []models.Hotel{{PricePerNight: 0}}
	routes := []RoutePlan{{EstimatedCost: 0}}

	estimate := EstimateBudget(hotels, routes, 2)
	if estimate.Breakdown.Accommodation != 200 {
		t.Errorf("Accommodation = %v, expected 200 from the 100/night fallback", estimate.Breakdown.Accommodation)
	}
	if estimate.Breakdown.Transportation != 50 {
		t.Errorf("Transportation = %v, expected the 50 fallback", estimate.Breakdown.Transportation)
	}

	estimate = EstimateBudget(nil, nil, 0)
	if estimate.DurationDays != 7 {
		t.Errorf("DurationDays = %d, expected the 7-day default", estimate.DurationDays)
	}
}

// TestBudgetAlerts tests each alert threshold.
func TestBudgetAlerts(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		days     int
		expected []string
	}{
		{"comfortable", 500, 5, nil},
		{"high daily", 1500, 5, []string{"High daily budget"}},
		{"very low", 200, 5, []string{"Very low budget"}},
		{"insurance only", 2100, 30, []string{"travel insurance"}},
		{"high and insured", 3000, 7, []string{"High daily budget", "travel insurance"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := budgetAlerts(tt.total, tt.days)
			if len(alerts) != len(tt.expected) {
				t.Fatalf("Expected %d alerts, got %v", len(tt.expected), alerts)
			}
			for i, fragment := range tt.expected {
				if !strings.Contains(alerts[i], fragment) {
					t.Errorf("Alert %d = %q, expected to contain %q", i, alerts[i], fragment)
				}
			}
		})
	}
}

// TestSimulatedWeather tests the seeded report for a fixed location.
func TestSimulatedWeather(t *testing.T) {
	report := simulatedWeather("Goa", 3)

	if report.Location != "Goa" {
		t.Errorf("Location = %q, expected Goa", report.Location)
	}
	// Seed for "Goa" is 279
	if report.Current.Temperature != 27 {
		t.Errorf("Temperature = %v, expected 27", report.Current.Temperature)
	}
	if report.Current.Humidity != 73 {
		t.Errorf("Humidity = %d, expected 73", report.Current.Humidity)
	}
	if len(report.Forecast) != 3 {
		t.Fatalf("Expected 3 forecast entries, got %d", len(report.Forecast))
	}
	if _, err := time.Parse("2006-01-02", report.Forecast[0].Date); err != nil {
		t.Errorf("Forecast date %q is not in YYYY-MM-DD form", report.Forecast[0].Date)
	}
}

// TestSimulatedWeatherDeterministic tests that repeated calls agree and the
// forecast is capped.
func TestSimulatedWeatherDeterministic(t *testing.T) {
	first := simulatedWeather("Paris", 10)
	second := simulatedWeather("Paris", 10)

	if first.Current != second.Current {
		t.Errorf("Current conditions differ between calls: %+v vs %+v", first.Current, second.Current)
	}
	if len(first.Forecast) != 7 {
		t.Errorf("Expected the forecast capped at 7 days, got %d", len(first.Forecast))
	}
	for i := range first.Forecast {
		if first.Forecast[i] != second.Forecast[i] {
			t.Errorf("Forecast day %d differs between calls", i)
		}
	}
}

// TestForecastWeatherWithoutKey tests the simulated fallback path.
func TestForecastWeatherWithoutKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	report := ForecastWeather("Tokyo", 2)
	if report.Location != "Tokyo" {
		t.Errorf("Location = %q, expected Tokyo", report.Location)
	}
	if len(report.Forecast) != 2 {
		t.Errorf("Expected 2 forecast entries, got %d", len(report.Forecast))
	}
}

// TestDestinationInfo tests known and unknown destination lookups.
func TestDestinationInfo(t *testing.T) {
	result := DestinationInfo("Tell me about Goa")
	if !strings.HasPrefix(result, "Search results for Tell me about Goa:") {
		t.Errorf("Unexpected prefix: %q", result)
	}
	if !strings.Contains(result, "beach destination") {
		t.Errorf("Expected the Goa description, got %q", result)
	}

	result = DestinationInfo("Atlantis")
	if !strings.Contains(result, "Beautiful destination") {
		t.Errorf("Expected the generic description, got %q", result)
	}
}

// TestRegistry tests the built-in tool set and execution dispatch.
func TestRegistry(t *testing.T) {
	registry := GetRegistry()

	if registry.Count() < 5 {
		t.Errorf("Expected at least 5 built-in tools, got %d", registry.Count())
	}
	for _, name := range []string{"destination_search", "weather_forecast", "hotel_search", "route_search", "budget_estimator"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("Expected tool %s to be registered", name)
		}
	}

	result, err := registry.Execute("destination_search", map[string]interface{}{"query": "paris"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(result, "City of Light") {
		t.Errorf("Unexpected search result: %q", result)
	}

	if _, err := registry.Execute("no_such_tool", nil); err == nil {
		t.Error("Expected an error for an unknown tool")
	}
}

// TestRegistryRegisterValidation tests rejection of malformed tools.
func TestRegistryRegisterValidation(t *testing.T) {
	registry := GetRegistry()

	if err := registry.Register(&Tool{Name: ""}); err == nil {
		t.Error("Expected an error for an empty tool name")
	}
	if err := registry.Register(&Tool{Name: "no-exec"}); err == nil {
		t.Error("Expected an error for a tool without Execute")
	}
	if err := registry.Register(NewSearchTool()); err == nil {
		t.Error("Expected an error for a duplicate registration")
	}
}

// TestRegistryList tests the LLM tool-calling format.
func TestRegistryList(t *testing.T) {
	list := GetRegistry().List()
	if len(list) < 5 {
		t.Fatalf("Expected at least 5 tools, got %d", len(list))
	}
	for _, entry := range list {
		if entry["type"] != "function" {
			t.Errorf("Expected type function, got %v", entry["type"])
		}
		fn, ok := entry["function"].(map[string]interface{})
		if !ok || fn["name"] == "" {
			t.Errorf("Malformed function entry: %v", entry)
		}
	}
}

// TestBudgetEstimatorTool tests the tool wrapper parsing trip_data.
func TestBudgetEstimatorTool(t *testing.T) {
	tool := NewBudgetEstimatorTool()

	result, err := tool.Execute(map[string]interface{}{"trip_data": `{"duration_days": 5}`})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(result, "1050") {
		t.Errorf("Expected the 1050 total in output, got %q", result)
	}

	if _, err := tool.Execute(map[string]interface{}{"trip_data": "{broken"}); err == nil {
		t.Error("Expected an error for malformed trip_data")
	}
}

// TestHotelSearchTool tests argument handling in the tool wrapper.
func TestHotelSearchTool(t *testing.T) {
	tool := NewHotelSearchTool()

	if _, err := tool.Execute(map[string]interface{}{}); err == nil {
		t.Error("Expected an error without a location")
	}

	result, err := tool.Execute(map[string]interface{}{
		"location":    "Goa",
		"max_results": float64(3),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(result, "hotel_3") || strings.Contains(result, "hotel_4") {
		t.Errorf("Expected exactly 3 hotels in output")
	}
}
