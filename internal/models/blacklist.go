package models

import "time"

// BlacklistType classifies what kind of item a blacklist entry covers.
type BlacklistType string

const (
	BlacklistHotel      BlacklistType = "hotel"
	BlacklistCity       BlacklistType = "city"
	BlacklistActivity   BlacklistType = "activity"
	BlacklistRestaurant BlacklistType = "restaurant"
)

// BlacklistTypes lists every valid blacklist type in a stable order.
var BlacklistTypes = []BlacklistType{
	BlacklistHotel,
	BlacklistCity,
	BlacklistActivity,
	BlacklistRestaurant,
}

// Valid reports whether t is one of the known blacklist types.
func (t BlacklistType) Valid() bool {
	switch t {
	case BlacklistHotel, BlacklistCity, BlacklistActivity, BlacklistRestaurant:
		return true
	}
	return false
}

// BlacklistEntry is a stored blacklist record. Admin entries live in their
// own collection with UserID fixed to "admin".
type BlacklistEntry struct {
	UserID    string        `bson:"user_id" json:"user_id"`
	ItemName  string        `bson:"item_name" json:"item_name"` // lowercased, trimmed
	ItemType  BlacklistType `bson:"item_type" json:"item_type"`
	ItemID    string        `bson:"item_id,omitempty" json:"item_id,omitempty"`
	Reason    string        `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	IsAdmin   bool          `bson:"is_admin" json:"is_admin"`
}

// BlacklistItem is the API view of an entry, merged across the user and
// admin collections.
type BlacklistItem struct {
	Name      string        `json:"name"`
	Type      BlacklistType `json:"type"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	IsAdmin   bool          `json:"is_admin"`
}

// BlacklistRequest is the body for adding or removing a blacklist entry.
type BlacklistRequest struct {
	UserID   string        `json:"user_id"`
	ItemName string        `json:"item_name"`
	ItemType BlacklistType `json:"item_type"`
	ItemID   string        `json:"item_id,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	IsAdmin  bool          `json:"is_admin"`
}

// BulkBlacklistItem is one item in a bulk add request.
type BulkBlacklistItem struct {
	Name   string        `json:"name"`
	Type   BlacklistType `json:"type"`
	ID     string        `json:"id,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// BulkBlacklistRequest adds several items for a user in one call.
type BulkBlacklistRequest struct {
	UserID  string              `json:"user_id"`
	Items   []BulkBlacklistItem `json:"items"`
	IsAdmin bool                `json:"is_admin"`
}

// BulkBlacklistResult reports how a bulk add went.
type BulkBlacklistResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
