package services

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"globetrotter/internal/models"
)

const maxVoicePayloadBytes = 10 * 1024 * 1024

var supportedAudioFormats = []string{"wav", "mp3", "flac", "m4a"}

// mockTranscriptions stands in for a real speech-to-text backend. The
// pipeline around it (intent, entities, chat conversion) is fully live.
var mockTranscriptions = []string{
	"I want to plan a trip to Goa for 5 days",
	"Find me hotels in Paris under 200 dollars",
	"What's the weather like in Tokyo next week",
	"Plan a budget trip to Bali",
	"Show me attractions in New York",
}

// intentPatterns maps travel intents to trigger phrases. Order matters:
// the first intent with a matching phrase wins.
var intentPatterns = []struct {
	intent   string
	patterns []string
}{
	{"search_destination", []string{"find", "search", "look for", "show me", "tell me about"}},
	{"plan_trip", []string{"plan a trip", "create itinerary", "plan my vacation", "help me plan", "organize trip"}},
	{"check_weather", []string{"weather", "climate", "temperature", "forecast"}},
	{"find_hotels", []string{"hotels", "accommodation", "places to stay", "booking"}},
	{"get_directions", []string{"directions", "route", "how to get", "transportation"}},
	{"budget_estimate", []string{"cost", "budget", "price", "expensive", "cheap", "affordable"}},
	{"blacklist_item", []string{"blacklist", "avoid", "don't show", "exclude", "remove"}},
}

var (
	dateKeywords = []string{"today", "tomorrow", "next week", "next month", "december", "january"}

	destinationKeywords = []string{
		"paris", "london", "tokyo", "new york", "bali", "rome", "barcelona",
		"thailand", "japan", "italy", "france", "spain", "usa", "india",
	}

	budgetRe   = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d{2})?)`)
	durationRe = regexp.MustCompile(`(\d+)\s*(?:days?|weeks?|months?)`)

	groupSizeRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*people`),
		regexp.MustCompile(`(\d+)\s*persons?`),
		regexp.MustCompile(`group of (\d+)`),
		regexp.MustCompile(`(\d+)\s*travelers?`),
	}
)

// VoiceService turns voice input into chat requests. Transcription is
// mocked; intent and entity extraction run on the transcribed text.
type VoiceService struct{}

func NewVoiceService() *VoiceService {
	return &VoiceService{}
}

// IsSupportedFormat reports whether the audio format can be processed.
func (s *VoiceService) IsSupportedFormat(format string) bool {
	format = strings.ToLower(format)
	for _, f := range supportedAudioFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ProcessVoiceInput decodes the audio payload, transcribes it, and
// interprets the result as a travel command.
func (s *VoiceService) ProcessVoiceInput(input *models.VoiceInput) *models.VoiceResult {
	if !s.IsSupportedFormat(input.Format) {
		return &models.VoiceResult{
			Status: "error",
			Error:  fmt.Sprintf("unsupported audio format %q", input.Format),
		}
	}

	audio, err := base64.StdEncoding.DecodeString(input.AudioData)
	if err != nil {
		return &models.VoiceResult{
			Status: "error",
			Error:  fmt.Sprintf("invalid base64 audio data: %v", err),
		}
	}
	if len(audio) > maxVoicePayloadBytes {
		return &models.VoiceResult{
			Status: "error",
			Error:  "audio payload exceeds 10MB limit",
		}
	}

	text := transcribe(audio)
	cmd := interpretCommand(text)

	return &models.VoiceResult{
		Status:           "success",
		TranscribedText:  text,
		ProcessedCommand: cmd,
		Confidence:       cmd.Confidence,
	}
}

// transcribe picks a canned transcription keyed off the payload so the
// same audio always maps to the same text.
func transcribe(audio []byte) string {
	return mockTranscriptions[len(audio)%len(mockTranscriptions)]
}

// interpretCommand classifies the transcribed text into a travel intent
// and pulls out entities like dates, destinations, and budgets.
func interpretCommand(text string) *models.VoiceCommand {
	lower := strings.ToLower(strings.TrimSpace(text))

	intent := "general_query"
	confidence := 0.6
outer:
	for _, candidate := range intentPatterns {
		for _, pattern := range candidate.patterns {
			if strings.Contains(lower, pattern) {
				intent = candidate.intent
				confidence = 0.8
				break outer
			}
		}
	}

	return &models.VoiceCommand{
		Intent:        intent,
		Confidence:    confidence,
		Entities:      extractTravelEntities(lower),
		OriginalText:  text,
		ProcessedText: lower,
	}
}

func extractTravelEntities(text string) map[string]string {
	entities := map[string]string{}

	for _, keyword := range dateKeywords {
		if strings.Contains(text, keyword) {
			entities["date"] = keyword
			break
		}
	}

	for _, dest := range destinationKeywords {
		if strings.Contains(text, dest) {
			entities["destination"] = dest
			break
		}
	}

	if m := budgetRe.FindStringSubmatch(text); m != nil {
		entities["budget"] = m[1]
	}

	if m := durationRe.FindString(text); m != "" {
		entities["duration"] = m
	}

	for _, re := range groupSizeRes {
		if m := re.FindStringSubmatch(text); m != nil {
			entities["group_size"] = m[1]
			break
		}
	}

	return entities
}

// ConvertToChatRequest runs the voice pipeline and shapes the result as a
// chat request, folding extracted entities into the request preferences.
func (s *VoiceService) ConvertToChatRequest(input *models.VoiceInput, userID, conversationID string) (*models.ChatRequest, *models.VoiceMetadata, error) {
	result := s.ProcessVoiceInput(input)
	if result.Status != "success" {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Error)
	}

	cmd := result.ProcessedCommand
	req := &models.ChatRequest{
		Message:        result.TranscribedText,
		UserID:         userID,
		ConversationID: conversationID,
		Context: map[string]interface{}{
			"input_type":     "voice",
			"voice_intent":   cmd.Intent,
			"voice_entities": cmd.Entities,
			"confidence":     cmd.Confidence,
		},
		Preferences: map[string]interface{}{},
	}

	if budget, ok := cmd.Entities["budget"]; ok {
		req.Preferences["budget_max"] = budget
	}
	if duration, ok := cmd.Entities["duration"]; ok {
		req.Preferences["trip_duration"] = duration
	}
	if size, ok := cmd.Entities["group_size"]; ok {
		if n, err := strconv.Atoi(size); err == nil {
			req.Preferences["group_size"] = n
		}
	}

	meta := &models.VoiceMetadata{
		Transcription: result.TranscribedText,
		Intent:        cmd.Intent,
		Entities:      cmd.Entities,
		Confidence:    cmd.Confidence,
	}
	return req, meta, nil
}

// Capabilities describes the formats, languages, and features the voice
// pipeline supports.
func (s *VoiceService) Capabilities() *models.VoiceCapabilities {
	return &models.VoiceCapabilities{
		SupportedFormats: supportedAudioFormats,
		SupportedLanguages: []string{
			"en-US", "en-GB", "es-ES", "fr-FR", "de-DE",
			"it-IT", "pt-BR", "ja-JP", "ko-KR", "zh-CN",
		},
		MaxAudioDuration: 60,
		MaxFileSize:      maxVoicePayloadBytes,
		Features: []string{
			"speech_to_text",
			"intent_recognition",
			"entity_extraction",
			"travel_command_processing",
		},
	}
}
