package models

import (
	"time"
)

// City is a catalog entity used for search and autocomplete. Cities are
// administered by privileged users and have a lifecycle independent of trips.
type City struct {
	ID                 string                   `bson:"_id" json:"id"`
	Name               string                   `bson:"name" json:"name"`
	Country            string                   `bson:"country" json:"country"`
	CountryCode        string                   `bson:"country_code" json:"country_code"`
	Description        string                   `bson:"description" json:"description"`
	Latitude           float64                  `bson:"latitude" json:"latitude"`
	Longitude          float64                  `bson:"longitude" json:"longitude"`
	Population         int64                    `bson:"population,omitempty" json:"population,omitempty"`
	Timezone           string                   `bson:"timezone" json:"timezone"`
	Currency           string                   `bson:"currency" json:"currency"`
	Languages          []string                 `bson:"languages" json:"languages"`
	BestTimeToVisit    []string                 `bson:"best_time_to_visit" json:"best_time_to_visit"`
	AvgTemperature     map[string]float64       `bson:"avg_temperature" json:"avg_temperature"` // month -> °C
	MustSeeAttractions []map[string]interface{} `bson:"must_see_attractions" json:"must_see_attractions"`
	LocalCuisine       []string                 `bson:"local_cuisine" json:"local_cuisine"`
	SafetyRating       float64                  `bson:"safety_rating" json:"safety_rating"` // 0-5
	CostIndex          float64                  `bson:"cost_index" json:"cost_index"`       // 1-5, 1 = very cheap
	ImageURLs          []string                 `bson:"image_urls" json:"image_urls"`
	IsFeatured         bool                     `bson:"is_featured" json:"is_featured"`
	Tags               []string                 `bson:"tags" json:"tags"`
	CreatedAt          time.Time                `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time                `bson:"updated_at" json:"updated_at"`
}

// CitySearchQuery captures the filters accepted by the city search endpoint.
// Zero values mean "filter not supplied".
type CitySearchQuery struct {
	Query         string
	Country       string
	MinRating     *float64
	MaxCost       *float64
	Tags          []string
	Skip          int64
	Limit         int64
	IncludeFacets bool
}

// CostRange is the observed min/max cost index across the catalog
type CostRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CityFacets holds the filter facets returned alongside search results
type CityFacets struct {
	Countries []string  `json:"countries"`
	CostRange CostRange `json:"cost_range"`
	Tags      []string  `json:"tags"`
}

// CitySearchResult is the search response envelope used when facets are
// requested
type CitySearchResult struct {
	Items  []City      `json:"items"`
	Facets *CityFacets `json:"facets,omitempty"`
}

// CityAutocompleteItem is the trimmed projection used by autocomplete
type CityAutocompleteItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	ImageURL    string `json:"image_url,omitempty"`
}

// UpdateCityRequest carries a partial city update; nil fields are untouched
type UpdateCityRequest struct {
	Name               *string                   `json:"name,omitempty"`
	Country            *string                   `json:"country,omitempty"`
	CountryCode        *string                   `json:"country_code,omitempty"`
	Description        *string                   `json:"description,omitempty"`
	Latitude           *float64                  `json:"latitude,omitempty"`
	Longitude          *float64                  `json:"longitude,omitempty"`
	Population         *int64                    `json:"population,omitempty"`
	Timezone           *string                   `json:"timezone,omitempty"`
	Currency           *string                   `json:"currency,omitempty"`
	Languages          *[]string                 `json:"languages,omitempty"`
	BestTimeToVisit    *[]string                 `json:"best_time_to_visit,omitempty"`
	AvgTemperature     *map[string]float64       `json:"avg_temperature,omitempty"`
	MustSeeAttractions *[]map[string]interface{} `json:"must_see_attractions,omitempty"`
	LocalCuisine       *[]string                 `json:"local_cuisine,omitempty"`
	SafetyRating       *float64                  `json:"safety_rating,omitempty"`
	CostIndex          *float64                  `json:"cost_index,omitempty"`
	ImageURLs          *[]string                 `json:"image_urls,omitempty"`
	IsFeatured         *bool                     `json:"is_featured,omitempty"`
	Tags               *[]string                 `json:"tags,omitempty"`
}
