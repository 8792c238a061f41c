package tools

import (
	"fmt"
	"strings"
)

// knownDestinations backs the simulated search results. A real search API
// integration would replace this table.
var knownDestinations = map[string]string{
	"goa":   "Goa is a popular beach destination in India known for its beautiful beaches, Portuguese architecture, and vibrant nightlife. Top attractions include Baga Beach, Old Goa churches, and spice plantations.",
	"paris": "Paris, the City of Light, offers iconic landmarks like the Eiffel Tower, Louvre Museum, and Notre-Dame Cathedral. Perfect for romantic getaways and cultural experiences.",
	"tokyo": "Tokyo combines traditional Japanese culture with modern innovation. Visit temples, experience sushi culture, and explore districts like Shibuya and Harajuku.",
	"bali":  "Bali offers stunning beaches, ancient temples, lush rice terraces, and vibrant culture. Popular areas include Ubud, Seminyak, and Canggu.",
}

// DestinationInfo returns a short description of the destinations matched
// in the query.
func DestinationInfo(query string) string {
	queryLower := strings.ToLower(query)
	for destination, description := range knownDestinations {
		if strings.Contains(queryLower, destination) {
			return fmt.Sprintf("Search results for %s: %s", query, description)
		}
	}
	return fmt.Sprintf("Search results for %s: Beautiful destination with many attractions, local culture, and great food options. Perfect for travelers seeking adventure and relaxation.", query)
}

// NewSearchTool creates the destination search tool
func NewSearchTool() *Tool {
	return &Tool{
		Name:        "destination_search",
		DisplayName: "Destination Search",
		Description: "Search for travel destinations, attractions, and travel information",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Destination or attraction to search for",
				},
			},
			"required": []string{"query"},
		},
		Execute: func(args map[string]interface{}) (string, error) {
			query, _ := args["query"].(string)
			if query == "" {
				return "", fmt.Errorf("query is required")
			}
			return DestinationInfo(query), nil
		},
	}
}
