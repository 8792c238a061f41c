package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"globetrotter/internal/models"
	"globetrotter/internal/planner"
	"globetrotter/internal/services"
)

// VoiceHandler handles the mocked voice input pipeline
type VoiceHandler struct {
	voice  *services.VoiceService
	engine *planner.Engine
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(voice *services.VoiceService, engine *planner.Engine) *VoiceHandler {
	return &VoiceHandler{voice: voice, engine: engine}
}

// Process transcribes audio and interprets the command
// POST /api/voice/process
func (h *VoiceHandler) Process(c *fiber.Ctx) error {
	if _, ok := requireUser(c); !ok {
		return nil
	}

	var input models.VoiceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if input.AudioData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio data is required",
		})
	}

	return c.JSON(h.voice.ProcessVoiceInput(&input))
}

// Chat transcribes audio and runs the result through the chat engine,
// attaching voice metadata to the response
// POST /api/voice/chat?user_id=&conversation_id=
func (h *VoiceHandler) Chat(c *fiber.Ctx) error {
	authUser, ok := requireUser(c)
	if !ok {
		return nil
	}

	var input models.VoiceInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := c.Query("user_id", authUser)
	if userID != authUser && !isAdmin(c) {
		userID = authUser
	}
	conversationID := c.Query("conversation_id")

	chatReq, meta, err := h.voice.ConvertToChatRequest(&input, userID, conversationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	response, err := h.engine.ProcessMessage(c.Context(), chatReq)
	if err != nil {
		return svcError(c, err, "Chat")
	}

	// Re-encode through a map so voice_metadata rides along without a
	// dedicated response type.
	raw, err := json.Marshal(response)
	if err != nil {
		return svcError(c, err, "Chat")
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return svcError(c, err, "Chat")
	}
	payload["voice_metadata"] = meta

	return c.JSON(payload)
}

// Capabilities describes the supported formats, languages and limits
// GET /api/voice/capabilities
func (h *VoiceHandler) Capabilities(c *fiber.Ctx) error {
	return c.JSON(h.voice.Capabilities())
}
