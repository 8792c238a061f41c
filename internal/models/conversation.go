package models

import (
	"time"
)

// ConversationState is the open-ended state bag attached to a conversation:
// the ordered message list plus whatever the assistant pipeline stores
// alongside it (extracted context, UI directives, the last trip plan).
type ConversationState struct {
	Messages  []Message              `bson:"messages" json:"messages"`
	Context   map[string]interface{} `bson:"context" json:"context"`
	UIActions map[string]interface{} `bson:"ui_actions" json:"ui_actions"`
	TripPlan  map[string]interface{} `bson:"trip_plan" json:"trip_plan"`
}

// Message is a single turn in a conversation
type Message struct {
	Role    string                 `bson:"role" json:"role"` // "user", "assistant", "system"
	Content string                 `bson:"content" json:"content"`
	Meta    map[string]interface{} `bson:"meta,omitempty" json:"meta,omitempty"`
	TS      string                 `bson:"ts" json:"ts"` // RFC 3339
}

// ConversationDoc is the persisted shape in the conversations collection.
// The document id is the opaque conversation key supplied by (or generated
// for) the client. There is no version field: concurrent writers overwrite
// each other last-write-wins.
type ConversationDoc struct {
	ID        string            `bson:"_id" json:"conversation_id"`
	UserID    string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	State     ConversationState `bson:"state" json:"state"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updated_at"`
}

// NewConversationState returns the default empty state assigned on creation
func NewConversationState() ConversationState {
	return ConversationState{
		Messages:  []Message{},
		Context:   map[string]interface{}{},
		UIActions: nil,
		TripPlan:  nil,
	}
}

// CreateConversationRequest is the request body for explicit creation
type CreateConversationRequest struct {
	ConversationID string             `json:"conversation_id,omitempty"`
	UserID         string             `json:"user_id,omitempty"`
	State          *ConversationState `json:"state,omitempty"`
}

// UpdateConversationRequest replaces the whole state (last write wins)
type UpdateConversationRequest struct {
	State ConversationState `json:"state"`
}

// AppendMessageRequest is the request body for appending one message
type AppendMessageRequest struct {
	Role    string                 `json:"role"`
	Content string                 `json:"content"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// ConversationResponse is the wire shape for a single conversation
type ConversationResponse struct {
	ConversationID string            `json:"conversation_id"`
	State          ConversationState `json:"state"`
	UpdatedAt      string            `json:"updated_at"`
}

// ConversationSummary is the listing projection (no messages)
type ConversationSummary struct {
	ConversationID string `json:"conversation_id"`
	HasState       bool   `json:"has_state"`
}
