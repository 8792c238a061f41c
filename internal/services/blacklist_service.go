package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"globetrotter/internal/database"
	"globetrotter/internal/models"
)

// adminScope is the fixed owner id of entries in the global admin blacklist.
const adminScope = "admin"

// BlacklistService manages per-user and admin blacklists for hotels,
// cities, activities and restaurants. Admin entries apply to every user.
type BlacklistService struct {
	db *database.MongoDB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *database.MongoDB) *BlacklistService {
	return &BlacklistService{db: db}
}

func (s *BlacklistService) userCollection() *mongo.Collection {
	return s.db.Collection(database.CollectionBlacklist)
}

func (s *BlacklistService) adminCollection() *mongo.Collection {
	return s.db.Collection(database.CollectionAdminBlacklist)
}

// normalizeItemName lowercases and trims a blacklist item name so lookups
// are case and whitespace insensitive.
func normalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add inserts a blacklist entry. The (scope, normalized name, type) triple
// is unique: a second add of the same item returns ErrAlreadyExists and
// leaves a single record.
func (s *BlacklistService) Add(ctx context.Context, userID, itemName string, itemType models.BlacklistType, itemID, reason string, isAdmin bool) error {
	if !itemType.Valid() {
		return fmt.Errorf("%w: unknown blacklist type %q", ErrInvalidInput, itemType)
	}

	entry := models.BlacklistEntry{
		UserID:    userID,
		ItemName:  normalizeItemName(itemName),
		ItemType:  itemType,
		ItemID:    itemID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
		IsAdmin:   isAdmin,
	}
	collection := s.userCollection()
	if isAdmin {
		entry.UserID = adminScope
		collection = s.adminCollection()
	}

	filter := bson.M{
		"user_id":   entry.UserID,
		"item_name": entry.ItemName,
		"item_type": entry.ItemType,
	}
	err := collection.FindOne(ctx, filter).Err()
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check blacklist for %s: %w", entry.ItemName, err)
	}

	if _, err := collection.InsertOne(ctx, entry); err != nil {
		// Two concurrent adds can both pass the check; the unique index
		// settles it.
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to add %s to blacklist: %w", entry.ItemName, err)
	}

	log.Printf("🚫 [BLACKLIST] Added %s (%s) for %s", entry.ItemName, entry.ItemType, entry.UserID)
	return nil
}

// Remove deletes a blacklist entry, ErrNotFound when no entry matched.
func (s *BlacklistService) Remove(ctx context.Context, userID, itemName string, itemType models.BlacklistType, isAdmin bool) error {
	scope := userID
	collection := s.userCollection()
	if isAdmin {
		scope = adminScope
		collection = s.adminCollection()
	}

	filter := bson.M{
		"user_id":   scope,
		"item_name": normalizeItemName(itemName),
		"item_type": itemType,
	}
	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove %s from blacklist: %w", itemName, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Names returns the deduplicated normalized names blacklisted for a user,
// combining their own entries with the admin list.
func (s *BlacklistService) Names(ctx context.Context, userID string) ([]string, error) {
	seen := map[string]bool{}
	names := []string{}

	collect := func(collection *mongo.Collection, scope string) error {
		cursor, err := collection.Find(ctx, bson.M{"user_id": scope})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var entry models.BlacklistEntry
			if err := cursor.Decode(&entry); err != nil {
				return err
			}
			if !seen[entry.ItemName] {
				seen[entry.ItemName] = true
				names = append(names, entry.ItemName)
			}
		}
		return cursor.Err()
	}

	if err := collect(s.userCollection(), userID); err != nil {
		return nil, fmt.Errorf("failed to load blacklist for user %s: %w", userID, err)
	}
	if err := collect(s.adminCollection(), adminScope); err != nil {
		return nil, fmt.Errorf("failed to load admin blacklist: %w", err)
	}
	return names, nil
}

// ByType returns the merged user and admin blacklist entries of one type.
func (s *BlacklistService) ByType(ctx context.Context, userID string, itemType models.BlacklistType) ([]models.BlacklistItem, error) {
	items := []models.BlacklistItem{}

	collect := func(collection *mongo.Collection, scope string) error {
		cursor, err := collection.Find(ctx, bson.M{"user_id": scope, "item_type": itemType})
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var entry models.BlacklistEntry
			if err := cursor.Decode(&entry); err != nil {
				return err
			}
			items = append(items, models.BlacklistItem{
				Name:      entry.ItemName,
				Type:      entry.ItemType,
				Reason:    entry.Reason,
				CreatedAt: entry.CreatedAt,
				IsAdmin:   scope == adminScope,
			})
		}
		return cursor.Err()
	}

	if err := collect(s.userCollection(), userID); err != nil {
		return nil, fmt.Errorf("failed to load %s blacklist for user %s: %w", itemType, userID, err)
	}
	if err := collect(s.adminCollection(), adminScope); err != nil {
		return nil, fmt.Errorf("failed to load admin %s blacklist: %w", itemType, err)
	}
	return items, nil
}

// All returns every blacklist entry for a user grouped by type.
func (s *BlacklistService) All(ctx context.Context, userID string) (map[string][]models.BlacklistItem, error) {
	all := map[string][]models.BlacklistItem{}
	for _, itemType := range models.BlacklistTypes {
		items, err := s.ByType(ctx, userID, itemType)
		if err != nil {
			return nil, err
		}
		all[string(itemType)] = items
	}
	return all, nil
}

// IsBlacklisted reports whether an item is blocked for a user, either by
// their own entry or the admin list. An empty itemType matches any type.
func (s *BlacklistService) IsBlacklisted(ctx context.Context, userID, itemName string, itemType models.BlacklistType) (bool, error) {
	name := normalizeItemName(itemName)

	check := func(collection *mongo.Collection, scope string) (bool, error) {
		filter := bson.M{"user_id": scope, "item_name": name}
		if itemType != "" {
			filter["item_type"] = itemType
		}
		err := collection.FindOne(ctx, filter).Err()
		if err == nil {
			return true, nil
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	if hit, err := check(s.userCollection(), userID); err != nil {
		return false, fmt.Errorf("failed to check blacklist for %s: %w", name, err)
	} else if hit {
		return true, nil
	}
	hit, err := check(s.adminCollection(), adminScope)
	if err != nil {
		return false, fmt.Errorf("failed to check admin blacklist for %s: %w", name, err)
	}
	return hit, nil
}

// FilterHotels drops blacklisted hotels from a search result. Matching is
// case-insensitive and tolerates partial name variations in either
// direction. A blacklist lookup failure degrades to returning the input
// unfiltered.
func (s *BlacklistService) FilterHotels(ctx context.Context, userID string, hotels []models.Hotel) []models.Hotel {
	if len(hotels) == 0 {
		return hotels
	}

	entries, err := s.ByType(ctx, userID, models.BlacklistHotel)
	if err != nil {
		log.Printf("⚠️ [BLACKLIST] Hotel filter skipped for %s: %v", userID, err)
		return hotels
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	filtered := make([]models.Hotel, 0, len(hotels))
	for _, hotel := range hotels {
		if hotelNameBlacklisted(hotel.Name, names) {
			log.Printf("🚫 [BLACKLIST] Filtered out hotel %s for %s", hotel.Name, userID)
			continue
		}
		filtered = append(filtered, hotel)
	}
	return filtered
}

// hotelNameBlacklisted reports whether a hotel name matches any blacklisted
// name exactly or as a substring in either direction, case-insensitively.
func hotelNameBlacklisted(name string, blacklisted []string) bool {
	normalized := normalizeItemName(name)
	for _, blocked := range blacklisted {
		if normalized == blocked ||
			strings.Contains(normalized, blocked) ||
			strings.Contains(blocked, normalized) {
			return true
		}
	}
	return false
}

// FilterDestinations drops blacklisted cities from a destination list by
// exact normalized name. A blacklist lookup failure degrades to returning
// the input unfiltered.
func (s *BlacklistService) FilterDestinations(ctx context.Context, userID string, destinations []string) []string {
	if len(destinations) == 0 {
		return destinations
	}

	entries, err := s.ByType(ctx, userID, models.BlacklistCity)
	if err != nil {
		log.Printf("⚠️ [BLACKLIST] Destination filter skipped for %s: %v", userID, err)
		return destinations
	}
	blocked := map[string]bool{}
	for _, e := range entries {
		blocked[e.Name] = true
	}

	filtered := make([]string, 0, len(destinations))
	for _, dest := range destinations {
		if blocked[normalizeItemName(dest)] {
			log.Printf("🚫 [BLACKLIST] Filtered out destination %s for %s", dest, userID)
			continue
		}
		filtered = append(filtered, dest)
	}
	return filtered
}

// BulkAdd adds several items for a user, counting how many were new versus
// already present or invalid.
func (s *BlacklistService) BulkAdd(ctx context.Context, userID string, items []models.BulkBlacklistItem, isAdmin bool) models.BulkBlacklistResult {
	result := models.BulkBlacklistResult{}
	for _, item := range items {
		err := s.Add(ctx, userID, item.Name, item.Type, item.ID, item.Reason, isAdmin)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Added++
	}
	return result
}
