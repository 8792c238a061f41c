package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"globetrotter/internal/database"
	"globetrotter/internal/models"
)

const (
	// contextCacheTTL is the Redis expiration for active session contexts.
	contextCacheTTL = 24 * time.Hour

	// historyKeepLast bounds the rolling per-user conversation history.
	historyKeepLast = 50
)

// destinationSimilarities suggests follow-up destinations for places a user
// has already planned. A static table stands in for a recommender model.
var destinationSimilarities = map[string][]string{
	"paris":    {"london", "rome", "barcelona"},
	"tokyo":    {"seoul", "singapore", "hong_kong"},
	"new_york": {"chicago", "san_francisco", "toronto"},
	"bali":     {"thailand", "philippines", "vietnam"},
	"dubai":    {"qatar", "singapore", "hong_kong"},
}

// ContextService persists per-user planning context and travel preferences,
// with active sessions cached in Redis.
type ContextService struct {
	db    *database.MongoDB
	cache *RedisService
}

// NewContextService creates a new context service. cache may be nil; the
// service then runs store-only.
func NewContextService(db *database.MongoDB, cache *RedisService) *ContextService {
	return &ContextService{db: db, cache: cache}
}

func (s *ContextService) contexts() *mongo.Collection {
	return s.db.Collection(database.CollectionUserContexts)
}

func (s *ContextService) preferences() *mongo.Collection {
	return s.db.Collection(database.CollectionUserPreferences)
}

func contextCacheKey(userID, sessionID string) string {
	return fmt.Sprintf("context:%s:%s", userID, sessionID)
}

// GetUserContext returns the planning context for a user, trying the session
// cache first. A user with no stored context gets a fresh default, not an
// error.
func (s *ContextService) GetUserContext(ctx context.Context, userID, sessionID string) (*models.UserContext, error) {
	if s.cache != nil && sessionID != "" {
		if raw, err := s.cache.Get(ctx, contextCacheKey(userID, sessionID)); err == nil && raw != "" {
			var uc models.UserContext
			if err := json.Unmarshal([]byte(raw), &uc); err == nil {
				return &uc, nil
			}
			log.Printf("⚠️ [CACHE] Discarding unreadable cached context for %s", userID)
		}
	}

	var uc models.UserContext
	err := s.contexts().FindOne(ctx, bson.M{"user_id": userID}).Decode(&uc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return defaultUserContext(userID, sessionID), nil
		}
		return nil, fmt.Errorf("failed to load context for user %s: %w", userID, err)
	}
	return &uc, nil
}

func defaultUserContext(userID, sessionID string) *models.UserContext {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", time.Now().UTC().UnixMilli())
	}
	return &models.UserContext{
		UserID:               userID,
		SessionID:            sessionID,
		PreviousDestinations: []string{},
		ConversationHistory:  []models.ConversationEntry{},
		LastActivity:         time.Now().UTC(),
		Preferences:          map[string]interface{}{},
	}
}

// SaveUserContext upserts the context document and refreshes the session
// cache. The cache write is best-effort.
func (s *ContextService) SaveUserContext(ctx context.Context, uc *models.UserContext) error {
	uc.LastActivity = time.Now().UTC()

	_, err := s.contexts().UpdateOne(ctx,
		bson.M{"user_id": uc.UserID},
		bson.M{"$set": uc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save context for user %s: %w", uc.UserID, err)
	}

	if s.cache != nil && uc.SessionID != "" {
		raw, err := json.Marshal(uc)
		if err == nil {
			if err := s.cache.Set(ctx, contextCacheKey(uc.UserID, uc.SessionID), raw, contextCacheTTL); err != nil {
				log.Printf("⚠️ [CACHE] Failed to cache context for %s: %v", uc.UserID, err)
			}
		}
	}
	return nil
}

// GetPreferences returns a user's stored travel preferences, an empty set
// when none are stored.
func (s *ContextService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.preferences().FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.UserPreferences{}, nil
		}
		return nil, fmt.Errorf("failed to load preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}

// SavePreferences upserts the supplied preference fields for a user.
// Fields not present in the map stay untouched.
func (s *ContextService) SavePreferences(ctx context.Context, userID string, prefs map[string]interface{}) error {
	set := bson.M{"user_id": userID, "updated_at": time.Now().UTC()}
	for key, value := range prefs {
		if key == "_id" || key == "user_id" {
			continue
		}
		set[key] = value
	}

	_, err := s.preferences().UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences for user %s: %w", userID, err)
	}

	log.Printf("💾 [CONTEXT] Saved preferences for user %s", userID)
	return nil
}

// RecordExchange appends one user/assistant exchange to the rolling history,
// keeping only the most recent entries.
func (s *ContextService) RecordExchange(ctx context.Context, userID, sessionID, message, response string, tripData map[string]interface{}) error {
	entry := models.ConversationEntry{
		Timestamp:   time.Now().UTC(),
		UserMessage: message,
		AIResponse:  response,
		TripData:    tripData,
	}

	update := bson.M{
		"$push": bson.M{
			"conversation_history": bson.M{
				"$each":  bson.A{entry},
				"$slice": -historyKeepLast,
			},
		},
		"$set": bson.M{"last_activity": time.Now().UTC()},
	}
	_, err := s.contexts().UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record exchange for user %s: %w", userID, err)
	}

	if s.cache != nil && sessionID != "" {
		// Drop the cached snapshot rather than rebuilding it here.
		if err := s.cache.Delete(ctx, contextCacheKey(userID, sessionID)); err != nil {
			log.Printf("⚠️ [CACHE] Failed to evict context for %s: %v", userID, err)
		}
	}
	return nil
}

// History returns the most recent exchanges for a user, oldest first.
func (s *ContextService) History(ctx context.Context, userID string, limit int) ([]models.ConversationEntry, error) {
	uc, err := s.GetUserContext(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	history := uc.ConversationHistory
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history, nil
}

// SetCurrentTripPlanning replaces the in-progress trip data on a user's
// context.
func (s *ContextService) SetCurrentTripPlanning(ctx context.Context, userID string, tripData map[string]interface{}) error {
	update := bson.M{"$set": bson.M{
		"current_trip_planning": tripData,
		"last_activity":         time.Now().UTC(),
	}}
	_, err := s.contexts().UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update trip planning for user %s: %w", userID, err)
	}
	return nil
}

// AddPreviousDestination records a destination in the user's travel history.
// Names are normalized; repeats are ignored.
func (s *ContextService) AddPreviousDestination(ctx context.Context, userID, destination string) error {
	update := bson.M{
		"$addToSet": bson.M{"previous_destinations": strings.ToLower(strings.TrimSpace(destination))},
		"$set":      bson.M{"last_activity": time.Now().UTC()},
	}
	_, err := s.contexts().UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to record destination for user %s: %w", userID, err)
	}
	return nil
}

// Recommendations builds personalized suggestions from a user's travel
// history and preferences.
func (s *ContextService) Recommendations(ctx context.Context, userID string) (*models.Recommendations, error) {
	uc, err := s.GetUserContext(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec := &models.Recommendations{
		SuggestedDestinations:   []string{},
		RecommendedActivities:   []string{},
		BudgetTips:              []string{},
		SeasonalRecommendations: []string{},
	}

	if len(uc.PreviousDestinations) > 0 {
		rec.SuggestedDestinations = similarDestinations(uc.PreviousDestinations)
	}
	if len(prefs.PreferredActivities) > 0 {
		rec.RecommendedActivities = prefs.PreferredActivities
	}
	if len(prefs.BudgetRange) > 0 {
		max, ok := prefs.BudgetRange["max"]
		if !ok {
			max = 1000
		}
		rec.BudgetTips = budgetTips(max)
	}
	return rec, nil
}

// similarDestinations maps visited destinations to up to five related
// suggestions, deduplicated in first-seen order.
func similarDestinations(previous []string) []string {
	seen := map[string]bool{}
	suggestions := []string{}
	for _, dest := range previous {
		for _, similar := range destinationSimilarities[dest] {
			if !seen[similar] {
				seen[similar] = true
				suggestions = append(suggestions, similar)
			}
			if len(suggestions) == 5 {
				return suggestions
			}
		}
	}
	return suggestions
}

// budgetTips returns advice matched to the upper end of a budget range.
func budgetTips(maxBudget float64) []string {
	switch {
	case maxBudget < 500:
		return []string{
			"Consider hostels or budget accommodations",
			"Look for free walking tours and activities",
			"Use public transportation",
			"Cook some meals yourself",
		}
	case maxBudget < 1500:
		return []string{
			"Mix of mid-range and budget accommodations",
			"Book flights in advance for better deals",
			"Consider shoulder season travel",
		}
	default:
		return []string{
			"Consider luxury experiences",
			"Private tours and premium accommodations available",
			"First-class transportation options",
		}
	}
}

// CleanupOldContexts removes contexts idle for longer than the retention
// window and returns how many were deleted. Cached copies expire on their
// own TTL.
func (s *ContextService) CleanupOldContexts(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := s.contexts().DeleteMany(ctx, bson.M{"last_activity": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to clean up old contexts: %w", err)
	}
	if res.DeletedCount > 0 {
		log.Printf("🧹 [CONTEXT] Cleaned up %d idle user contexts", res.DeletedCount)
	}
	return res.DeletedCount, nil
}
