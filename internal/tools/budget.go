package tools

import (
	"encoding/json"
	"fmt"

	"globetrotter/internal/models"
)

// Per-day defaults for food and activities. Location-specific pricing
// would come from a cost-of-living dataset.
const (
	dailyFoodCost     = 50.0
	dailyActivityCost = 40.0
)

// CostBreakdown splits an estimate into its major categories.
type CostBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Transportation float64 `json:"transportation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
}

// BudgetEstimate is the full trip cost projection.
type BudgetEstimate struct {
	TotalBudget  float64       `json:"total_budget"`
	Currency     string        `json:"currency"`
	DurationDays int           `json:"duration_days"`
	Breakdown    CostBreakdown `json:"breakdown"`
	DailyAverage float64       `json:"daily_average"`
	BudgetAlerts []string      `json:"budget_alerts"`
}

// EstimateBudget projects the total cost of a trip from its hotels and
// routes. Missing inputs fall back to rough defaults.
func EstimateBudget(hotels []models.Hotel, routes []RoutePlan, days int) *BudgetEstimate {
	if days <= 0 {
		days = 7
	}

	hotelCost := 100.0 * float64(days)
	if len(hotels) > 0 {
		sum := 0.0
		for _, h := range hotels {
			price := h.PricePerNight
			if price <= 0 {
				price = 100
			}
			sum += price
		}
		hotelCost = sum / float64(len(hotels)) * float64(days)
	}

	transportCost := 100.0
	if len(routes) > 0 {
		transportCost = 0
		for _, r := range routes {
			cost := r.EstimatedCost
			if cost <= 0 {
				cost = 50
			}
			transportCost += cost
		}
	}

	foodCost := dailyFoodCost * float64(days)
	activityCost := dailyActivityCost * float64(days)
	total := hotelCost + transportCost + foodCost + activityCost

	return &BudgetEstimate{
		TotalBudget:  total,
		Currency:     "USD",
		DurationDays: days,
		Breakdown: CostBreakdown{
			Accommodation:  hotelCost,
			Transportation: transportCost,
			Food:           foodCost,
			Activities:     activityCost,
		},
		DailyAverage: total / float64(days),
		BudgetAlerts: budgetAlerts(total, days),
	}
}

func budgetAlerts(total float64, days int) []string {
	alerts := []string{}
	dailyAvg := total / float64(days)

	if dailyAvg > 200 {
		alerts = append(alerts, "High daily budget - consider budget accommodations")
	} else if dailyAvg < 50 {
		alerts = append(alerts, "Very low budget - verify cost estimates")
	}
	if total > 2000 {
		alerts = append(alerts, "Consider travel insurance for high-value trip")
	}
	return alerts
}

// NewBudgetEstimatorTool creates the budget estimation tool
func NewBudgetEstimatorTool() *Tool {
	return &Tool{
		Name:        "budget_estimator",
		DisplayName: "Budget Estimator",
		Description: "Estimate total trip budget including accommodation, transport, food, and activities",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"trip_data": map[string]interface{}{
					"type":        "string",
					"description": "JSON object with hotels, routes, and duration_days",
				},
			},
			"required": []string{"trip_data"},
		},
		Execute: func(args map[string]interface{}) (string, error) {
			raw, _ := args["trip_data"].(string)

			var tripData struct {
				Hotels       []models.Hotel `json:"hotels"`
				Routes       []RoutePlan    `json:"routes"`
				DurationDays int            `json:"duration_days"`
			}
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &tripData); err != nil {
					return "", fmt.Errorf("invalid trip_data: %w", err)
				}
			}

			data, err := json.MarshalIndent(EstimateBudget(tripData.Hotels, tripData.Routes, tripData.DurationDays), "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}
