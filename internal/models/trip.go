package models

import (
	"time"
)

// Budget item categories
const (
	BudgetCategoryAccommodation = "accommodation"
	BudgetCategoryTransport     = "transport"
	BudgetCategoryFood          = "food"
	BudgetCategoryActivities    = "activities"
	BudgetCategoryShopping      = "shopping"
	BudgetCategoryOther         = "other"
)

// Trip represents a user's trip stored in MongoDB.
// Activities and budget items are embedded; they have no lifecycle of
// their own outside the parent document.
type Trip struct {
	ID            string       `bson:"_id" json:"id"`
	Name          string       `bson:"name" json:"name"`
	Description   string       `bson:"description" json:"description"`
	Destination   string       `bson:"destination" json:"destination"`
	StartDate     string       `bson:"start_date" json:"start_date"` // YYYY-MM-DD
	EndDate       string       `bson:"end_date" json:"end_date"`     // YYYY-MM-DD
	CoverPhotoURL string       `bson:"cover_photo_url,omitempty" json:"cover_photo_url,omitempty"`
	UserID        string       `bson:"user_id" json:"user_id"`
	IsPublic      bool         `bson:"is_public" json:"is_public"`
	Itinerary     []TripDay    `bson:"itinerary" json:"itinerary"`
	Budget        []BudgetItem `bson:"budget" json:"budget"`
	Cities        []TripCity   `bson:"cities,omitempty" json:"cities,omitempty"`
	Tags          []string     `bson:"tags" json:"tags"`
	Collaborators []string     `bson:"collaborators" json:"collaborators"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `bson:"updated_at" json:"updated_at"`
}

// TripDay holds the ordered activities for a single itinerary date
type TripDay struct {
	Date       string     `bson:"date" json:"date"` // YYYY-MM-DD
	Activities []Activity `bson:"activities" json:"activities"`
	Notes      string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Activity is a single scheduled item inside a trip day
type Activity struct {
	ID               string  `bson:"id" json:"id"`
	Name             string  `bson:"name" json:"name"`
	Description      string  `bson:"description,omitempty" json:"description,omitempty"`
	Location         string  `bson:"location" json:"location"`
	StartTime        string  `bson:"start_time" json:"start_time"` // HH:MM
	EndTime          string  `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Cost             float64 `bson:"cost" json:"cost"`
	Category         string  `bson:"category" json:"category"`
	Notes            string  `bson:"notes,omitempty" json:"notes,omitempty"`
	BookingReference string  `bson:"booking_reference,omitempty" json:"booking_reference,omitempty"`
	ImageURL         string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Website          string  `bson:"website,omitempty" json:"website,omitempty"`
	Order            int     `bson:"order" json:"order"`
}

// TripCity links a catalog city into a trip's destination list, with the
// visit window for that city.
type TripCity struct {
	CityID    string    `bson:"city_id" json:"city_id"`
	Name      string    `bson:"name" json:"name"`
	Country   string    `bson:"country" json:"country"`
	StartDate string    `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string    `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// BudgetItem is a single budget line inside a trip
type BudgetItem struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Amount   float64 `bson:"amount" json:"amount"`
	Category string  `bson:"category" json:"category"`
	Date     string  `bson:"date" json:"date"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
	Paid     bool    `bson:"paid" json:"paid"`
}

// CreateTripRequest is the request body for creating a trip
type CreateTripRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Destination   string   `json:"destination"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	CoverPhotoURL string   `json:"cover_photo_url,omitempty"`
	IsPublic      bool     `json:"is_public"`
	Tags          []string `json:"tags,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
}

// UpdateTripRequest carries a partial trip update; nil fields are untouched
type UpdateTripRequest struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Destination   *string   `json:"destination,omitempty"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	CoverPhotoURL *string   `json:"cover_photo_url,omitempty"`
	IsPublic      *bool     `json:"is_public,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Collaborators *[]string `json:"collaborators,omitempty"`
}

// AddActivityRequest is the request body for adding an activity to a day
type AddActivityRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	Location         string  `json:"location"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time,omitempty"`
	Cost             float64 `json:"cost"`
	Category         string  `json:"category"`
	Notes            string  `json:"notes,omitempty"`
	BookingReference string  `json:"booking_reference,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
	Website          string  `json:"website,omitempty"`
	Order            int     `json:"order"`
}

// UpdateActivityRequest carries a partial activity update
type UpdateActivityRequest struct {
	Name             *string  `json:"name,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Location         *string  `json:"location,omitempty"`
	StartTime        *string  `json:"start_time,omitempty"`
	EndTime          *string  `json:"end_time,omitempty"`
	Cost             *float64 `json:"cost,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	BookingReference *string  `json:"booking_reference,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	Website          *string  `json:"website,omitempty"`
	Order            *int     `json:"order,omitempty"`
}

// AddBudgetItemRequest is the request body for adding a budget line
type AddBudgetItemRequest struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes,omitempty"`
	Paid     bool    `json:"paid"`
}

// UpdateBudgetItemRequest carries a partial budget item update
type UpdateBudgetItemRequest struct {
	Name     *string  `json:"name,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Category *string  `json:"category,omitempty"`
	Date     *string  `json:"date,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	Paid     *bool    `json:"paid,omitempty"`
}

// AddTripCityRequest references a catalog city from a trip
type AddTripCityRequest struct {
	CityID    string `json:"city_id"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}
