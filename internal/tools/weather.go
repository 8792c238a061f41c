package tools

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

const openWeatherBaseURL = "http://api.openweathermap.org/data/2.5"

var weatherConditions = []string{"sunny", "partly cloudy", "cloudy", "light rain", "clear"}

// CurrentWeather is the present-moment reading for a location.
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastEntry is one forecast data point.
type ForecastEntry struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
}

// WeatherReport bundles current conditions and a short forecast.
type WeatherReport struct {
	Location string          `json:"location"`
	Current  CurrentWeather  `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// ForecastWeather returns the weather outlook for a location. With an
// OPENWEATHER_API_KEY it queries OpenWeatherMap; otherwise, or on any API
// failure, it returns simulated data derived from the location name so
// repeated calls agree.
func ForecastWeather(location string, days int) *WeatherReport {
	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		if report, err := fetchOpenWeather(location, days, apiKey); err == nil {
			return report
		} else {
			log.Printf("⚠️ [WEATHER] OpenWeather lookup failed for %s, using simulated data: %v", location, err)
		}
	}
	return simulatedWeather(location, days)
}

func fetchOpenWeather(location string, days int, apiKey string) (*WeatherReport, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", apiKey)
	query.Set("units", "metric")

	resp, err := client.Get(openWeatherBaseURL + "/weather?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("current weather request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("current weather returned status %d", resp.StatusCode)
	}

	var current struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return nil, fmt.Errorf("failed to decode current weather: %w", err)
	}

	report := &WeatherReport{Location: location}
	report.Current = CurrentWeather{
		Temperature: current.Main.Temp,
		Humidity:    current.Main.Humidity,
		WindSpeed:   current.Wind.Speed,
	}
	if len(current.Weather) > 0 {
		report.Current.Description = current.Weather[0].Description
	}

	// 8 forecast slots per day, capped by the API at 40.
	cnt := days * 8
	if cnt > 40 {
		cnt = 40
	}
	query.Set("cnt", fmt.Sprintf("%d", cnt))
	forecastResp, err := client.Get(openWeatherBaseURL + "/forecast?" + query.Encode())
	if err != nil {
		return report, nil
	}
	defer forecastResp.Body.Close()
	if forecastResp.StatusCode != http.StatusOK {
		return report, nil
	}

	var forecast struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(forecastResp.Body).Decode(&forecast); err != nil {
		return report, nil
	}

	limit := days * 2
	for i, item := range forecast.List {
		if i == limit {
			break
		}
		entry := ForecastEntry{
			Date:        item.DtTxt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
		}
		report.Forecast = append(report.Forecast, entry)
	}
	return report, nil
}

// simulatedWeather fabricates a plausible report seeded by the location
// name, keeping results stable across calls.
func simulatedWeather(location string, days int) *WeatherReport {
	seed := 0
	for _, c := range location {
		seed += int(c)
	}

	report := &WeatherReport{
		Location: location,
		Current: CurrentWeather{
			Temperature: float64(25 + seed%16 - 5),
			Description: weatherConditions[seed%len(weatherConditions)],
			Humidity:    40 + seed%41,
			WindSpeed:   float64(5 + seed%11),
		},
	}

	if days > 7 {
		days = 7
	}
	now := time.Now().UTC()
	for i := 0; i < days; i++ {
		report.Forecast = append(report.Forecast, ForecastEntry{
			Date:        now.AddDate(0, 0, i).Format("2006-01-02"),
			Temperature: float64(25 + (seed+i*3)%12 - 3),
			Description: weatherConditions[(seed+i)%len(weatherConditions)],
			Humidity:    40 + (seed+i*7)%41,
		})
	}
	return report
}

// NewWeatherTool creates the weather forecast tool
func NewWeatherTool() *Tool {
	return &Tool{
		Name:        "weather_forecast",
		DisplayName: "Weather Forecast",
		Description: "Get weather forecast for travel destinations",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":        "string",
					"description": "City or destination name",
				},
				"days": map[string]interface{}{
					"type":        "integer",
					"description": "Number of forecast days (max 7)",
				},
			},
			"required": []string{"location"},
		},
		Execute: func(args map[string]interface{}) (string, error) {
			location, _ := args["location"].(string)
			if location == "" {
				return "", fmt.Errorf("location is required")
			}
			days := 7
			if d, ok := args["days"].(float64); ok && d > 0 {
				days = int(d)
			}
			data, err := json.MarshalIndent(ForecastWeather(location, days), "", "  ")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	}
}
