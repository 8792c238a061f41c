package planner

import (
	"context"

	"globetrotter/internal/logging"
	"globetrotter/internal/services"
	"globetrotter/internal/tools"
)

// newPipeline assembles the fixed planning flow. Data-gathering steps
// degrade to empty fields when a backend is unavailable so a partial plan
// still reaches the user.
func (e *Engine) newPipeline() *Pipeline {
	return NewPipeline(
		Step{Name: "load_context", Run: e.loadContext},
		Step{Name: "destination", Run: e.pickDestination},
		Step{Name: "weather", Run: e.checkWeather},
		Step{Name: "hotels", Run: e.searchHotels},
		Step{Name: "route", Run: e.planRoute},
		Step{Name: "budget", Run: e.estimateBudget},
		Step{Name: "itinerary", Run: e.buildItinerary},
		Step{Name: "finalize", Run: e.finalize},
	)
}

func (e *Engine) loadContext(ctx context.Context, st State) (State, error) {
	logger := logging.WithRun(st.RunID, st.ConversationID, st.UserID)

	if e.contexts != nil {
		uc, err := e.contexts.GetUserContext(ctx, st.UserID, st.ConversationID)
		if err != nil {
			logger.Warn("user context unavailable", "error", err)
		} else {
			st.UserContext = uc
		}
	}

	if e.blacklist != nil {
		names, err := e.blacklist.Names(ctx, st.UserID)
		if err != nil {
			logger.Warn("blacklist unavailable", "error", err)
		} else {
			st.Blacklist = names
		}
	}

	return st, nil
}

func (e *Engine) pickDestination(ctx context.Context, st State) (State, error) {
	st.DestinationInfo = tools.DestinationInfo(st.Slots.Destination)
	return st, nil
}

func (e *Engine) checkWeather(ctx context.Context, st State) (State, error) {
	st.Weather = tools.ForecastWeather(st.Slots.Destination, st.Slots.DurationDays)
	return st, nil
}

func (e *Engine) searchHotels(ctx context.Context, st State) (State, error) {
	sortBy := "rating"
	if st.Slots.AccommodationType == "budget" {
		sortBy = "price"
	}

	hotels := tools.SearchHotels(st.Slots.Destination, sortBy, 5)
	if e.blacklist != nil && st.UserID != "" {
		filtered := e.blacklist.FilterHotels(ctx, st.UserID, hotels)
		if removed := len(hotels) - len(filtered); removed > 0 {
			if m := services.GetMetrics(); m != nil {
				m.RecordBlacklistFiltered(removed)
			}
		}
		hotels = filtered
	}

	st.Hotels = hotels
	return st, nil
}

func (e *Engine) planRoute(ctx context.Context, st State) (State, error) {
	origin := st.Slots.Origin
	if origin == "" {
		origin = "current location"
	}
	st.Route = tools.PlanRoute(origin, st.Slots.Destination, routeMode(st.Slots.TransportMode))
	return st, nil
}

// routeMode translates the extracted transport preference into the mode
// vocabulary of the route tool.
func routeMode(transport string) string {
	switch transport {
	case "flight":
		return "flying"
	case "car", "":
		return "driving"
	default:
		return transport
	}
}

func (e *Engine) estimateBudget(ctx context.Context, st State) (State, error) {
	var routes []tools.RoutePlan
	if st.Route != nil {
		routes = append(routes, *st.Route)
	}
	st.Budget = tools.EstimateBudget(st.Hotels, routes, st.Slots.DurationDays)
	return st, nil
}

// buildItinerary invokes the configured Generator. A generator failure
// leaves Plan nil rather than aborting the run; the chat reply then
// degrades to text only.
func (e *Engine) buildItinerary(ctx context.Context, st State) (State, error) {
	plan, err := e.generator.Generate(ctx, st)
	if err != nil {
		logging.WithRun(st.RunID, st.ConversationID, st.UserID).
			Warn("itinerary generation failed", "error", err)
		return st, nil
	}

	st.Plan = plan
	if m := services.GetMetrics(); m != nil {
		m.RecordItineraryGenerated()
	}
	return st, nil
}

// finalize persists what this run learned about the user so the next
// conversation starts from it. Failures only log; the plan is already
// built.
func (e *Engine) finalize(ctx context.Context, st State) (State, error) {
	if e.contexts == nil || st.UserID == "" {
		return st, nil
	}
	logger := logging.WithRun(st.RunID, st.ConversationID, st.UserID)

	trip := map[string]interface{}{
		"destination":   st.Slots.Destination,
		"duration_days": st.Slots.DurationDays,
		"travelers":     st.Slots.Travelers,
		"budget_type":   st.Slots.BudgetType,
	}
	if st.Plan != nil {
		trip["total_budget"] = st.Plan.TotalBudget
	}

	if err := e.contexts.SetCurrentTripPlanning(ctx, st.UserID, trip); err != nil {
		logger.Warn("failed to save trip planning context", "error", err)
	}
	if err := e.contexts.AddPreviousDestination(ctx, st.UserID, st.Slots.Destination); err != nil {
		logger.Warn("failed to record destination", "error", err)
	}

	return st, nil
}
