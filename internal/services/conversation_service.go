package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"globetrotter/internal/database"
	"globetrotter/internal/models"
)

// conversationCacheTTL is the fixed expiration applied on every cache write.
const conversationCacheTTL = 24 * time.Hour

// ConversationStore is the document-store surface the conversation service
// needs. Split out so tests can swap in a failing or in-memory store.
type ConversationStore interface {
	Find(ctx context.Context, id string) (*models.ConversationDoc, error)
	Create(ctx context.Context, id, userID string, state models.ConversationState) error
	Replace(ctx context.Context, id string, state models.ConversationState) error
	Append(ctx context.Context, id string, msg models.Message) (*models.ConversationState, error)
	Delete(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.ConversationSummary, error)
}

// ConversationCache is the cache surface the conversation service needs.
// *RedisService satisfies it.
type ConversationCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ConversationService persists conversation state in MongoDB with a
// read-through/write-through Redis cache in front. The store is
// authoritative; the cache is an optimization and every cache failure is
// logged and swallowed at the call site.
type ConversationService struct {
	store ConversationStore
	cache ConversationCache
}

// NewConversationService creates a conversation service backed by MongoDB
// and Redis. cache may be nil; the service then runs store-only.
func NewConversationService(db *database.MongoDB, cache *RedisService) *ConversationService {
	svc := &ConversationService{
		store: &mongoConversationStore{col: db.Collection(database.CollectionConversations)},
	}
	if cache != nil {
		svc.cache = cache
	}
	return svc
}

func conversationCacheKey(id string) string {
	return "conv:" + id
}

// cacheGet returns the cached state for id, or nil on miss or any cache
// problem.
func (s *ConversationService) cacheGet(ctx context.Context, id string) *models.ConversationState {
	if s.cache == nil {
		return nil
	}
	m := GetMetrics()
	raw, err := s.cache.Get(ctx, conversationCacheKey(id))
	if err != nil || raw == "" {
		if m != nil {
			m.RecordCacheMiss("conversation")
		}
		return nil
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("⚠️ [CACHE] Discarding unreadable cached conversation %s: %v", id, err)
		if m != nil {
			m.RecordCacheMiss("conversation")
		}
		return nil
	}
	if m != nil {
		m.RecordCacheHit("conversation")
	}
	return &state
}

// cacheSet writes state under the conversation key with the standard TTL.
// Failures are logged, never propagated.
func (s *ConversationService) cacheSet(ctx context.Context, id string, state models.ConversationState) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(state)
	if err != nil {
		log.Printf("⚠️ [CACHE] Failed to encode conversation %s: %v", id, err)
		return
	}
	if err := s.cache.Set(ctx, conversationCacheKey(id), raw, conversationCacheTTL); err != nil {
		log.Printf("⚠️ [CACHE] Failed to cache conversation %s: %v", id, err)
	}
}

// cacheDelete drops the cached state for id. Failures are logged, never
// propagated.
func (s *ConversationService) cacheDelete(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, conversationCacheKey(id)); err != nil {
		log.Printf("⚠️ [CACHE] Failed to evict conversation %s: %v", id, err)
	}
}

// Get returns the state for a conversation, consulting the cache first and
// backfilling it on a store hit. Absence is ErrNotFound; a store outage is
// returned as its own error, not conflated with absence.
func (s *ConversationService) Get(ctx context.Context, id string) (*models.ConversationState, error) {
	if state := s.cacheGet(ctx, id); state != nil {
		return state, nil
	}

	doc, err := s.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
	}

	s.cacheSet(ctx, id, doc.State)
	return &doc.State, nil
}

// Create creates a conversation with the given id and initial state. A
// pre-existing conversation keeps its identity fields and has its state
// replaced.
func (s *ConversationService) Create(ctx context.Context, id, userID string, state models.ConversationState) error {
	err := s.store.Create(ctx, id, userID, state)
	if err != nil {
		err = fmt.Errorf("failed to create conversation %s: %w", id, err)
		log.Printf("⚠️ [CONV] Store write failed for %s, state held in cache only: %v", id, err)
	}
	s.cacheSet(ctx, id, state)
	return err
}

// Upsert replaces the whole state of a conversation, creating it if needed.
// The store write is attempted first; the cache is updated regardless so a
// transient store outage still leaves the new state readable.
func (s *ConversationService) Upsert(ctx context.Context, id string, state models.ConversationState) error {
	err := s.store.Replace(ctx, id, state)
	if err != nil {
		err = fmt.Errorf("failed to upsert conversation %s: %w", id, err)
		log.Printf("⚠️ [CONV] Store write failed for %s, state held in cache only: %v", id, err)
	}
	s.cacheSet(ctx, id, state)
	return err
}

// Append atomically appends one message to the conversation's message list,
// creating the conversation if it does not exist yet. The returned state is
// the post-append document state.
func (s *ConversationService) Append(ctx context.Context, id string, msg models.Message) (*models.ConversationState, error) {
	if msg.TS == "" {
		msg.TS = time.Now().UTC().Format(time.RFC3339)
	}

	state, err := s.store.Append(ctx, id, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to append to conversation %s: %w", id, err)
	}

	s.cacheSet(ctx, id, *state)
	return state, nil
}

// Delete removes a conversation. Returns ErrNotFound when no document
// matched.
func (s *ConversationService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, id)
	s.cacheDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Clear resets a conversation's state to the empty initial state, keeping
// the document. Returns ErrNotFound when the conversation does not exist.
func (s *ConversationService) Clear(ctx context.Context, id string) error {
	ok, err := s.store.Clear(ctx, id)
	s.cacheDelete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to clear conversation %s: %w", id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns conversation summaries for a user, oldest id first.
func (s *ConversationService) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.ConversationSummary, error) {
	summaries, err := s.store.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations for user %s: %w", userID, err)
	}
	return summaries, nil
}

// NewConversationID generates the default conversation id used when a client
// does not supply one: the current UTC time down to microseconds.
func NewConversationID() string {
	now := time.Now().UTC()
	return now.Format("20060102150405") + fmt.Sprintf("%06d", now.Nanosecond()/1000)
}

// mongoConversationStore is the production ConversationStore.
type mongoConversationStore struct {
	col *mongo.Collection
}

func (m *mongoConversationStore) Find(ctx context.Context, id string) (*models.ConversationDoc, error) {
	var doc models.ConversationDoc
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (m *mongoConversationStore) Create(ctx context.Context, id, userID string, state models.ConversationState) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"state": state, "updated_at": now},
		"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

func (m *mongoConversationStore) Replace(ctx context.Context, id string, state models.ConversationState) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set":         bson.M{"state": state, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

// Append pushes one message onto state.messages in a single conditional
// pipeline update: an existing list is extended, a missing document or
// missing list starts as a one-element list. No read-modify-write cycle.
func (m *mongoConversationStore) Append(ctx context.Context, id string, msg models.Message) (*models.ConversationState, error) {
	now := time.Now().UTC()
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"state.messages": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$state.messages", bson.A{}}},
				bson.A{msg},
			}},
			"created_at": bson.M{"$ifNull": bson.A{"$created_at", now}},
			"updated_at": now,
		}}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc models.ConversationDoc
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc.State, nil
}

func (m *mongoConversationStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *mongoConversationStore) Clear(ctx context.Context, id string) (bool, error) {
	update := bson.M{
		"$set": bson.M{"state": models.NewConversationState(), "updated_at": time.Now().UTC()},
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m *mongoConversationStore) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.ConversationSummary, error) {
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "state": 1})

	cursor, err := m.col.Find(ctx, bson.M{"user_id": userID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.ConversationSummary{}
	for cursor.Next(ctx) {
		var doc models.ConversationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ConversationSummary{
			ConversationID: doc.ID,
			HasState:       len(doc.State.Messages) > 0 || len(doc.State.Context) > 0,
		})
	}
	return summaries, cursor.Err()
}
