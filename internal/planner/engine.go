package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"globetrotter/internal/llm"
	"globetrotter/internal/logging"
	"globetrotter/internal/models"
	"globetrotter/internal/services"
)

// assistantPersona is the system prompt for every conversational
// completion.
const assistantPersona = `You are GlobeTrotter AI, a friendly and expert travel planning assistant.
Your role is to help users plan amazing trips by providing personalized recommendations,
itineraries, and travel advice. Be conversational, helpful, and enthusiastic about travel.

When users greet you, respond warmly and ask about their travel plans.
When they ask about destinations, provide detailed and helpful information.
Always be ready to help create detailed travel itineraries.`

const chatPromptTemplate = `User message: %s
User preferences: %s

Analyze the user's request and:
1. If they're asking for a trip plan, extract destination, dates, budget, travelers
2. Provide helpful travel advice and information
3. If you have enough information for a complete trip, indicate that you can create an itinerary

Respond naturally and helpfully. If the user provides trip details like destination, dates, and budget,
let them know you can create a detailed itinerary for them.`

// itineraryAnnouncement is appended to the reply whenever a plan was
// produced, cueing the frontend copy for the interactive panel.
const itineraryAnnouncement = "\n\n🎉 **Perfect!** I've created a smart itinerary based on your request! The interactive planner shows:\n\n" +
	"✨ **Optimized routes** based on your preferences\n" +
	"💰 **Budget breakdown** with real-time updates\n" +
	"🌤️ **Weather-aware recommendations**\n" +
	"🏨 **Best value accommodations**\n" +
	"📱 **Drag & drop to customize** - prices update automatically!\n\n" +
	"Start planning your adventure! 🚀"

// Engine is the deployed chat entry point. It classifies each message,
// runs the planning pipeline for trip requests and produces a plain reply
// for everything else. All storage failures degrade to logging; a chat
// message never fails because Mongo or Redis is down.
type Engine struct {
	conversations *services.ConversationService
	contexts      *services.ContextService
	blacklist     *services.BlacklistService
	llm           llm.Provider

	classifier Classifier
	generator  Generator
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClassifier replaces the default heuristic classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithGenerator replaces the default template generator.
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// NewEngine wires the chat engine. provider may be nil; the engine then
// answers with deterministic content only.
func NewEngine(
	conversations *services.ConversationService,
	contexts *services.ContextService,
	blacklist *services.BlacklistService,
	provider llm.Provider,
	opts ...Option,
) *Engine {
	e := &Engine{
		conversations: conversations,
		contexts:      contexts,
		blacklist:     blacklist,
		llm:           provider,
		classifier:    HeuristicClassifier{},
		generator:     TemplateGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessMessage handles one chat turn: persist the user message, answer
// it (with a trip plan when the message asks for one) and persist the
// reply.
func (e *Engine) ProcessMessage(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, services.ErrInvalidInput
	}

	start := time.Now()
	if m := services.GetMetrics(); m != nil {
		m.RecordChatRequest()
		defer func() { m.RecordChatLatency(time.Since(start).Seconds()) }()
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = services.NewConversationID()
		if e.conversations != nil {
			if err := e.conversations.Create(ctx, conversationID, userID, models.NewConversationState()); err != nil {
				logging.WithRun("", conversationID, userID).Warn("failed to create conversation", "error", err)
			}
		}
	}

	runID := uuid.NewString()
	logger := logging.WithRun(runID, conversationID, userID)

	e.appendMessage(ctx, logger, conversationID, models.Message{
		Role:    "user",
		Content: req.Message,
		TS:      time.Now().UTC().Format(time.RFC3339),
	})

	var response *models.ChatResponse
	if e.classifier.IsPlanningRequest(req.Message, req.Preferences) {
		response = e.planTrip(ctx, runID, conversationID, userID, req)
	} else {
		response = &models.ChatResponse{
			Message:        e.conversationalReply(ctx, req.Message, req.Preferences),
			ConversationID: conversationID,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		}
	}

	e.appendMessage(ctx, logger, conversationID, models.Message{
		Role:    "assistant",
		Content: response.Message,
		TS:      time.Now().UTC().Format(time.RFC3339),
	})
	e.recordExchange(ctx, logger, userID, conversationID, req.Message, response)

	logger.Info("message processed",
		"planning", response.TripPlan != nil,
		"duration", time.Since(start).Round(time.Millisecond))
	return response, nil
}

// planTrip runs the full pipeline. A pipeline failure degrades to a plain
// reply; the error is logged and counted, never returned to the caller.
func (e *Engine) planTrip(ctx context.Context, runID, conversationID, userID string, req *models.ChatRequest) *models.ChatResponse {
	slots := e.extractSlots(ctx, runID, conversationID, userID, req.Message, req.Preferences).FillDefaults()

	st := State{
		RunID:          runID,
		UserID:         userID,
		ConversationID: conversationID,
		Message:        req.Message,
		Preferences:    req.Preferences,
		Slots:          slots,
	}

	st, err := e.newPipeline().Run(ctx, st)
	if err != nil {
		if m := services.GetMetrics(); m != nil {
			m.RecordChatError("pipeline")
		}
		return &models.ChatResponse{
			Message:        e.conversationalReply(ctx, req.Message, req.Preferences),
			ConversationID: conversationID,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		}
	}

	response := &models.ChatResponse{
		Message:        e.planningReply(ctx, req, st),
		ConversationID: conversationID,
		TripPlan:       st.Plan,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	if st.Plan != nil {
		response.UIActions = &models.UIActions{
			CollapseChat:     true,
			AnimateItinerary: "drip",
			OpenPanel:        "itinerary",
		}
	}
	return response
}

// planningReply builds the text half of a planning response: an LLM (or
// deterministic) lead plus the itinerary announcement when a plan exists.
func (e *Engine) planningReply(ctx context.Context, req *models.ChatRequest, st State) string {
	lead := ""
	if e.llm != nil {
		prefsJSON, _ := json.Marshal(req.Preferences)
		text, err := e.llm.Complete(ctx, llm.Prompt{
			System: assistantPersona,
			User:   fmt.Sprintf(chatPromptTemplate, req.Message, string(prefsJSON)),
		})
		if err != nil {
			if m := services.GetMetrics(); m != nil {
				m.RecordChatError("llm")
			}
		} else {
			lead = strings.TrimSpace(text)
		}
	}
	if lead == "" {
		lead = planSummary(st)
	}

	if st.Plan == nil {
		return lead
	}
	return lead + itineraryAnnouncement
}

// planSummary is the deterministic lead used when no provider is
// configured or the call failed.
func planSummary(st State) string {
	slots := st.Slots
	var b strings.Builder
	fmt.Fprintf(&b, "I've planned a %d-day %s trip to %s for %d traveler(s).",
		slots.DurationDays, slots.BudgetType, slots.Destination, slots.Travelers)
	if st.Plan != nil {
		fmt.Fprintf(&b, " Estimated budget: $%.0f USD.", st.Plan.TotalBudget)
	}
	if st.Weather != nil {
		fmt.Fprintf(&b, " Current weather in %s: %.0f°C, %s.",
			st.Weather.Location, st.Weather.Current.Temperature, st.Weather.Current.Description)
	}
	return b.String()
}

// conversationalReply answers non-planning messages. With a provider it is
// a persona completion; otherwise a canned demo response.
func (e *Engine) conversationalReply(ctx context.Context, message string, prefs map[string]interface{}) string {
	if e.llm != nil {
		prefsJSON, _ := json.Marshal(prefs)
		text, err := e.llm.Complete(ctx, llm.Prompt{
			System: assistantPersona,
			User:   fmt.Sprintf(chatPromptTemplate, message, string(prefsJSON)),
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if m := services.GetMetrics(); m != nil {
			m.RecordChatError("llm")
		}
	}
	return mockReply(message)
}

func (e *Engine) appendMessage(ctx context.Context, logger *slog.Logger, conversationID string, msg models.Message) {
	if e.conversations == nil {
		return
	}
	if _, err := e.conversations.Append(ctx, conversationID, msg); err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			logger.Warn("failed to append message", "role", msg.Role, "error", err)
		}
	}
}

func (e *Engine) recordExchange(ctx context.Context, logger *slog.Logger, userID, conversationID, message string, response *models.ChatResponse) {
	if e.contexts == nil {
		return
	}

	var tripData map[string]interface{}
	if plan := response.TripPlan; plan != nil {
		tripData = map[string]interface{}{
			"total_budget": plan.TotalBudget,
			"total_days":   plan.TotalDays,
		}
		if len(plan.Cities) > 0 {
			tripData["destination"] = plan.Cities[0].CityName
		}
	}

	if err := e.contexts.RecordExchange(ctx, userID, conversationID, message, response.Message, tripData); err != nil {
		logger.Warn("failed to record exchange", "error", err)
	}
}
