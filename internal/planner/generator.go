package planner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"globetrotter/internal/models"
)

// Generator assembles a trip plan from the gathered state. The default is
// the deterministic template below; an LLM-backed generator can be plugged
// in without touching the pipeline.
type Generator interface {
	Generate(ctx context.Context, st State) (*models.TripPlan, error)
}

// Daily budget base per traveler by budget type.
const (
	economicalDailyBase = 200
	moderateDailyBase   = 400
	luxuryDailyBase     = 800

	minDailyBudget = 50
)

// TemplateGenerator builds a single-city plan from the extracted slots and
// the pipeline's weather, hotel and route results. It never fails.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, st State) (*models.TripPlan, error) {
	slots := st.Slots.FillDefaults()

	totalBudget := dailyBase(slots.BudgetType) * float64(slots.DurationDays) * float64(slots.Travelers)
	perDay := math.Max(minDailyBudget, math.Round(totalBudget/float64(slots.DurationDays)*100)/100)

	start := time.Now()
	end := start.AddDate(0, 0, maxInt(1, slots.DurationDays))

	title := fmt.Sprintf("%s %s Adventure", titleCase(slots.BudgetType), slots.Destination)
	if slots.Origin != "" {
		title += " from " + slots.Origin
	}

	transport := slots.TransportMode
	if transport == "" {
		transport = "flight"
	}

	city := models.CityVisit{
		CityName: slots.Destination,
		Country:  "Unknown",
		Arrival: map[string]string{
			"date": start.Format("2006-01-02"),
			"time": "09:00",
			"by":   transport,
		},
		Departure: map[string]string{
			"date": end.Format("2006-01-02"),
			"time": "18:00",
			"by":   transport,
		},
		Hotels:           st.Hotels,
		Days:             buildDays(slots, st, start, perDay),
		TransportOptions: transportOptions(st, start),
	}

	return &models.TripPlan{
		TripTitle:   title,
		TotalDays:   slots.DurationDays,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		TotalBudget: totalBudget,
		Currency:    "USD",
		Cities:      []models.CityVisit{city},
	}, nil
}

func dailyBase(budgetType string) float64 {
	switch budgetType {
	case "economical":
		return economicalDailyBase
	case "luxury":
		return luxuryDailyBase
	default:
		return moderateDailyBase
	}
}

func buildDays(slots TripSlots, st State, start time.Time, perDay float64) []models.DayPlan {
	crowd := 70.0
	days := make([]models.DayPlan, 0, slots.DurationDays)

	for i := 0; i < slots.DurationDays; i++ {
		weather := "clear"
		if st.Weather != nil && len(st.Weather.Forecast) > 0 {
			weather = st.Weather.Forecast[minInt(i, len(st.Weather.Forecast)-1)].Description
		}

		days = append(days, models.DayPlan{
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			Activities: []models.PlanActivity{
				{
					ActivityID:     fmt.Sprintf("act-%d-1", i+1),
					Time:           "09:00",
					Name:           fmt.Sprintf("Explore %s - Highlights", slots.Destination),
					Description:    fmt.Sprintf("Discover popular spots in %s based on your interests.", slots.Destination),
					EstimatedCost:  25,
					Currency:       "USD",
					CrowdScore:     &crowd,
					WeatherSummary: weather,
					PlaceCoords:    map[string]float64{"lat": 0, "lng": 0},
					Estimated:      true,
				},
			},
			DailyBudgetTotal: perDay,
		})
	}

	return days
}

// transportOptions converts the planned route into the trip plan's
// per-mode option table. No route means an empty table.
func transportOptions(st State, start time.Time) map[models.TransportType][]models.TransportOption {
	opts := map[models.TransportType][]models.TransportOption{}
	if st.Route == nil {
		return opts
	}

	mode := transportTypeFor(st.Route.Mode)
	departure := time.Date(start.Year(), start.Month(), start.Day(), 9, 0, 0, 0, start.Location())

	for i, leg := range st.Route.Routes {
		arrival := departure.Add(time.Duration(leg.DurationMinutes) * time.Minute)
		opts[mode] = append(opts[mode], models.TransportOption{
			ID:              fmt.Sprintf("%s-%d", leg.RouteID, i+1),
			DepartureTime:   departure.Format(time.RFC3339),
			ArrivalTime:     arrival.Format(time.RFC3339),
			DurationMinutes: leg.DurationMinutes,
			Price:           leg.Cost,
			Currency:        "USD",
			Provider:        "estimated",
			Estimated:       true,
		})
	}

	return opts
}

func transportTypeFor(mode string) models.TransportType {
	switch mode {
	case "flying":
		return models.TransportFlight
	case "train":
		return models.TransportTrain
	default:
		return models.TransportBus
	}
}

// titleCase uppercases the first letter only. Good enough for the budget
// type vocabulary; avoids a deprecated strings.Title call.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
