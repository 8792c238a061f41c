package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"globetrotter/internal/llm"
	"globetrotter/internal/logging"
)

const slotExtractionPrompt = `Analyze this travel request and extract key details in JSON format.

User message: %q
User preferences: %s

Return ONLY a JSON object with these fields, omitting any field the message does not mention:
{
  "origin": "departure city",
  "destination": "destination city",
  "budget_type": "economical, moderate or luxury",
  "duration_days": number,
  "travelers": number,
  "interests": ["cultural", "adventure", "food", "shopping", "nature"],
  "transport_preference": "bus, train, flight or car",
  "accommodation_type": "budget, mid-range or luxury"
}

Examples:
- "economical trip from Surat to Ahmedabad" -> {"origin": "Surat", "destination": "Ahmedabad", "budget_type": "economical"}
- "5 day luxury vacation to Paris for 2 people" -> {"destination": "Paris", "duration_days": 5, "travelers": 2, "budget_type": "luxury"}`

// extractSlots pulls trip parameters out of the message. With a provider
// configured it asks for structured JSON; without one, or when the model
// returns garbage, it falls back to the regex extractor. Preferences fill
// any slot the message left empty.
func (e *Engine) extractSlots(ctx context.Context, runID, conversationID, userID, message string, prefs map[string]interface{}) TripSlots {
	slots, ok := e.llmSlots(ctx, message, prefs)
	if !ok {
		slots = heuristicSlots(message)
	} else {
		logging.WithRun(runID, conversationID, userID).Debug("slots extracted via LLM",
			"destination", slots.Destination, "days", slots.DurationDays)
	}
	return applyPreferenceSlots(slots, prefs)
}

func (e *Engine) llmSlots(ctx context.Context, message string, prefs map[string]interface{}) (TripSlots, bool) {
	if e.llm == nil {
		return TripSlots{}, false
	}

	prefsJSON, _ := json.Marshal(prefs)
	response, err := e.llm.Complete(ctx, llm.Prompt{
		User:     fmt.Sprintf(slotExtractionPrompt, message, string(prefsJSON)),
		JSONOnly: true,
	})
	if err != nil {
		return TripSlots{}, false
	}

	var slots TripSlots
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &slots); err != nil {
		return TripSlots{}, false
	}
	return slots, true
}

// stripCodeFence removes a surrounding markdown code fence. Providers
// without a JSON response mode tend to wrap output in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var (
	slotDurationRe  = regexp.MustCompile(`(\d+)[-\s]*(day|days|night|nights|week|weeks|month|months)`)
	slotTravelersRe = regexp.MustCompile(`(\d+)\s*(?:people|persons?|travellers?|travelers?|adults?|pax)`)
	// Proper-noun run after a movement preposition, e.g. "to New York".
	slotDestinationRe = regexp.MustCompile(`(?:to|in|at|visit(?:ing)?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	slotOriginRe      = regexp.MustCompile(`from\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

var interestKeywords = []struct {
	keyword  string
	interest string
}{
	{"cultur", "cultural"},
	{"museum", "cultural"},
	{"histor", "cultural"},
	{"adventure", "adventure"},
	{"hik", "adventure"},
	{"food", "food"},
	{"restaurant", "food"},
	{"cuisine", "food"},
	{"shopping", "shopping"},
	{"nature", "nature"},
	{"beach", "nature"},
	{"outdoor", "nature"},
}

// heuristicSlots is the deterministic extractor used when no LLM is
// available. It reads the original casing for place names and lowercase
// text for everything else.
func heuristicSlots(message string) TripSlots {
	var slots TripSlots
	lower := strings.ToLower(message)

	if m := slotDestinationRe.FindStringSubmatch(message); m != nil {
		slots.Destination = m[1]
	}
	if m := slotOriginRe.FindStringSubmatch(message); m != nil {
		// "from Surat to Ahmedabad" must not leave origin == destination.
		if !strings.EqualFold(m[1], slots.Destination) {
			slots.Origin = m[1]
		}
	}

	if m := slotDurationRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "week"):
			n *= 7
		case strings.HasPrefix(m[2], "month"):
			n *= 30
		}
		slots.DurationDays = n
	}

	if m := slotTravelersRe.FindStringSubmatch(lower); m != nil {
		slots.Travelers, _ = strconv.Atoi(m[1])
	} else if strings.Contains(lower, "solo") {
		slots.Travelers = 1
	} else if strings.Contains(lower, "couple") {
		slots.Travelers = 2
	}

	switch {
	case strings.Contains(lower, "luxury") || strings.Contains(lower, "premium"):
		slots.BudgetType = "luxury"
	case strings.Contains(lower, "economical") || strings.Contains(lower, "cheap") || strings.Contains(lower, "budget"):
		slots.BudgetType = "economical"
	}

	switch {
	case strings.Contains(lower, "flight") || strings.Contains(lower, "fly"):
		slots.TransportMode = "flight"
	case strings.Contains(lower, "train"):
		slots.TransportMode = "train"
	case strings.Contains(lower, "bus"):
		slots.TransportMode = "bus"
	case strings.Contains(lower, "drive") || strings.Contains(lower, "car"):
		slots.TransportMode = "car"
	}

	switch {
	case strings.Contains(lower, "hostel"):
		slots.AccommodationType = "budget"
	case strings.Contains(lower, "resort") || strings.Contains(lower, "5-star"):
		slots.AccommodationType = "luxury"
	}

	seen := map[string]bool{}
	for _, ik := range interestKeywords {
		if strings.Contains(lower, ik.keyword) && !seen[ik.interest] {
			seen[ik.interest] = true
			slots.Interests = append(slots.Interests, ik.interest)
		}
	}

	return slots
}

// applyPreferenceSlots fills slots the message left empty from the stored
// or request preferences. Message content always wins.
func applyPreferenceSlots(slots TripSlots, prefs map[string]interface{}) TripSlots {
	if len(prefs) == 0 {
		return slots
	}

	if slots.Destination == "" {
		if v, ok := prefs["destination"].(string); ok {
			slots.Destination = v
		}
	}
	if slots.BudgetType == "" {
		if v, ok := prefs["budget_type"].(string); ok {
			slots.BudgetType = v
		}
	}
	if slots.AccommodationType == "" {
		if v, ok := prefs["accommodation_type"].(string); ok {
			slots.AccommodationType = v
		}
	}
	if slots.TransportMode == "" {
		if v, ok := prefs["transport_preference"].(string); ok {
			slots.TransportMode = v
		}
	}
	if slots.DurationDays <= 0 {
		slots.DurationDays = intPref(prefs["trip_duration"])
	}
	if slots.Travelers <= 0 {
		if n := intPref(prefs["group_size"]); n > 0 {
			slots.Travelers = n
		} else {
			slots.Travelers = intPref(prefs["travelers"])
		}
	}

	return slots
}

var leadingIntRe = regexp.MustCompile(`\d+`)

// intPref coerces a preference value that may arrive as a number or as
// text like "5 days".
func intPref(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		if m := leadingIntRe.FindString(n); m != "" {
			parsed, _ := strconv.Atoi(m)
			return parsed
		}
	}
	return 0
}
