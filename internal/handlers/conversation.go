package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// ConversationHandler handles conversation state storage endpoints
type ConversationHandler struct {
	conversations *services.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// List returns the caller's conversation summaries
// GET /api/conversations
func (h *ConversationHandler) List(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	skip := int64(c.QueryInt("skip", 0))
	if skip < 0 {
		skip = 0
	}
	limit := clampLimit(c.QueryInt("limit", 20), 20, 50)

	summaries, err := h.conversations.ListByUser(c.Context(), userID, skip, limit)
	if err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(summaries)
}

// Create registers a conversation, generating an id when none is given
// POST /api/conversations
func (h *ConversationHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}

	var req models.CreateConversationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	id := req.ConversationID
	if id == "" {
		id = services.NewConversationID()
	}
	state := models.NewConversationState()
	if req.State != nil {
		state = *req.State
	}

	if err := h.conversations.Create(c.Context(), id, userID, state); err != nil {
		return svcError(c, err, "Conversation")
	}

	log.Printf("✅ [CONVERSATION] Created conversation %s for user %s", id, userID)
	return c.Status(fiber.StatusCreated).JSON(models.ConversationResponse{
		ConversationID: id,
		State:          state,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Get returns the full state of one conversation
// GET /api/conversations/:id
func (h *ConversationHandler) Get(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	state, err := h.conversations.Get(c.Context(), c.Params("id"))
	if err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(models.ConversationResponse{
		ConversationID: c.Params("id"),
		State:          *state,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Update replaces the conversation state, last write wins
// PATCH /api/conversations/:id
func (h *ConversationHandler) Update(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.UpdateConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.conversations.Upsert(c.Context(), c.Params("id"), req.State); err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(models.ConversationResponse{
		ConversationID: c.Params("id"),
		State:          req.State,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Delete removes a conversation and its cache entry
// DELETE /api/conversations/:id
func (h *ConversationHandler) Delete(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	if err := h.conversations.Delete(c.Context(), c.Params("id")); err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Conversation deleted"})
}

// Clear resets a conversation to empty state while keeping its id
// POST /api/conversations/:id/clear
func (h *ConversationHandler) Clear(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	if err := h.conversations.Clear(c.Context(), c.Params("id")); err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Conversation cleared"})
}

// AppendMessage adds one message to the conversation transcript
// POST /api/conversations/:id/messages
func (h *ConversationHandler) AppendMessage(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var req models.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Role == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role and content are required",
		})
	}

	state, err := h.conversations.Append(c.Context(), c.Params("id"), models.Message{
		Role:    req.Role,
		Content: req.Content,
		Meta:    req.Meta,
		TS:      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return svcError(c, err, "Conversation")
	}
	return c.JSON(models.ConversationResponse{
		ConversationID: c.Params("id"),
		State:          *state,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}
