package planner

import (
	"context"
	"fmt"

	"globetrotter/internal/llm"
	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// itinerarySystemPrompt asks the model for a structured day-by-day JSON
// document. The raw text is returned to the client as-is; parsing and
// validation live on the consumer side.
const itinerarySystemPrompt = `You are GlobeTrotter AI, an expert travel planning assistant. Your task is to help users plan their trips by generating detailed itineraries.

When creating an itinerary, include:
1. Daily activities with time slots
2. Recommended places to visit
3. Estimated costs
4. Travel times between locations
5. Weather-appropriate suggestions

Format your response as a structured JSON object following this schema:
{
  "days": [
    {
      "day_number": 1,
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "HH:MM",
          "name": "Activity name",
          "description": "Detailed description",
          "location": "Location name",
          "estimated_cost": 0.0,
          "duration_minutes": 0,
          "notes": "Any additional notes"
        }
      ]
    }
  ],
  "total_estimated_cost": 0.0,
  "currency": "USD",
  "recommendations": []
}`

const itineraryPromptTemplate = `Create a detailed travel itinerary based on the following information:

Destination: %s
Travel Dates: %s to %s
Travelers: %s
Budget: %s
Preferences: %s

Please generate a detailed itinerary including activities, timings, and estimated costs.`

// GenerateItinerary serves the standalone itinerary endpoint. Unlike the
// chat path it is stateless: one prompt in, one document out.
func (e *Engine) GenerateItinerary(ctx context.Context, req *models.GenerateItineraryRequest) *models.GenerateItineraryResponse {
	if e.llm == nil {
		return &models.GenerateItineraryResponse{
			Status:  "error",
			Message: "Failed to generate itinerary: no LLM provider configured",
		}
	}

	prompt := fmt.Sprintf(itineraryPromptTemplate,
		orNotSpecified(req.Destination),
		orNotSpecified(req.StartDate),
		orNotSpecified(req.EndDate),
		orNotSpecified(travelersString(req.Travelers)),
		orNotSpecified(req.Budget),
		orNone(req.Preferences),
	)

	response, err := e.llm.Complete(ctx, llm.Prompt{
		System:   itinerarySystemPrompt,
		User:     prompt,
		JSONOnly: true,
	})
	if err != nil {
		if m := services.GetMetrics(); m != nil {
			m.RecordChatError("llm")
		}
		return &models.GenerateItineraryResponse{
			Status:  "error",
			Message: fmt.Sprintf("Failed to generate itinerary: %v", err),
		}
	}

	if m := services.GetMetrics(); m != nil {
		m.RecordItineraryGenerated()
	}
	return &models.GenerateItineraryResponse{
		Status:    "success",
		Itinerary: response,
	}
}

func travelersString(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
