package planner

import (
	"regexp"
	"strings"
)

// Classifier decides whether a message is asking for a trip plan. Swap the
// implementation to change when the full pipeline runs.
type Classifier interface {
	IsPlanningRequest(message string, prefs map[string]interface{}) bool
}

var (
	planningVerbRe = regexp.MustCompile(`\b(plan|trip|itinerary|vacation|holiday|visit|travel|tour|getaway|explore)\b`)
	durationHintRe = regexp.MustCompile(`\b\d+\s*(day|days|week|weeks|month|months|night|nights)\b`)
	moneyHintRe    = regexp.MustCompile(`[$€₹£]|\b(budget|economical|cheap|affordable|luxury)\b`)
)

// HeuristicClassifier scores a message on independent signals instead of a
// destination whitelist, so it works for places it has never seen. Two or
// more signals mark the message as a planning request.
type HeuristicClassifier struct{}

func (HeuristicClassifier) IsPlanningRequest(message string, prefs map[string]interface{}) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return false
	}

	signals := 0
	if planningVerbRe.MatchString(m) {
		signals++
	}
	if durationHintRe.MatchString(m) {
		signals++
	}
	if moneyHintRe.MatchString(m) {
		signals++
	}
	// Longer messages carry enough context to plan from; one-word
	// greetings and short questions stay conversational.
	if len(strings.Fields(m)) >= 4 {
		signals++
	}

	return signals >= 2
}
