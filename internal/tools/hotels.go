package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"globetrotter/internal/models"
)

// SearchHotels returns simulated hotel listings for a location, sorted by
// the requested criterion (price, rating, or distance). A booking API
// integration would replace the simulation.
func SearchHotels(location, sortBy string, maxResults int) []models.Hotel {
	if maxResults <= 0 {
		maxResults = 10
	}

	hotels := make([]models.Hotel, 0, maxResults)
	for i := 1; i <= maxResults; i++ {
		hotels = append(hotels, models.Hotel{
			HotelID:              fmt.Sprintf("hotel_%d", i),
			Name:                 fmt.Sprintf("Hotel %s %d", location, i),
			Rating:               3.5 + float64(i%3)*0.5,
			PricePerNight:        float64(80 + i*20),
			Currency:             "USD",
			DistanceFromCenterKM: 1.0 + float64(i)*0.5,
			Amenities:            []string{"WiFi", "Pool", "Gym"},
		})
	}

	switch sortBy {
	case "rating":
		sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].Rating > hotels[j].Rating })
	case "distance":
		sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].DistanceFromCenterKM < hotels[j].DistanceFromCenterKM })
	default: // price
		sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].PricePerNight < hotels[j].PricePerNight })
	}
	return hotels
}

// NewHotelSearchTool creates the hotel search tool
func NewHotelSearchTool() *Tool {
	return &Tool{
		Name:        "hotel_search",
		DisplayName: "Hotel Search",
		Description: "Search for hotels with filtering by price, rating, and location",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "City to search hotels in",
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"description": "Sort criterion: price, rating, or distance",
				},
				"max_results": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of hotels to return",
				},
			},
			"required": []string{"location"},
		},
		Execute: func(args map[string]interface{}) (string, error) {
			location, _ := args["location"].(string)
			if location == "" {
				return "", fmt.Errorf("location is required")
			}
			sortBy, _ := args["sort_by"].(string)
			maxResults := 10
			if n, ok := args["max_results"].(float64); ok && n > 0 {
				maxResults = int(n)
			}

			data, err := json.MarshalIndent(map[string]interface{}{
				"location": location,
				"sort_by":  sortBy,
				"hotels":   SearchHotels(location, sortBy, maxResults),
			}, "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}
