package planner

import "strings"

// Canned replies for the no-provider demo mode, keyed on rough destination
// keywords. Each one reminds the user that real planning needs an API key.
const (
	goaDemoReply = `I'd love to help you plan a trip to Goa! Here's what I found:

🏖️ **Goa Highlights:**
- Beautiful beaches like Baga, Calangute, and Anjuna
- Portuguese colonial architecture in Old Goa
- Vibrant nightlife and beach shacks
- Water sports and spice plantations

📅 **Best Time:** October to March
💰 **Budget:** ₹3,000-8,000 per day depending on your style
🏨 **Accommodation:** Beach resorts, boutique hotels, or budget hostels

Note: This is a demo response. For full AI-powered planning, please configure the Gemini API key.`

	parisDemoReply = `Paris awaits you! Here's a quick overview:

🗼 **Must-Visit:**
- Eiffel Tower and Champs-Élysées
- Louvre Museum and Notre-Dame
- Montmartre and Sacré-Cœur
- Seine River cruise

🍷 **Experience:** French cuisine, wine tasting, art galleries
💰 **Budget:** €100-300 per day
🚇 **Transport:** Excellent metro system

Note: This is a demo response. For personalized AI planning, please set up the Gemini API key.`

	genericDemoReply = `I understand you're interested in planning a trip!

While I'd love to provide detailed AI-powered recommendations, I'm currently running in demo mode.

To unlock the full experience with personalized itineraries, real-time weather and hotel data, budget optimization and smart recommendations, please configure your Gemini API key in the environment settings.

For now, I can help with basic travel information and mock planning data.`
)

func mockReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, "goa", "beach", "india"):
		return goaDemoReply
	case containsAny(lower, "paris", "france", "europe"):
		return parisDemoReply
	default:
		return genericDemoReply
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
