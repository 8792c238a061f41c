package models

// VoiceInput carries base64-encoded audio for the voice endpoints.
type VoiceInput struct {
	AudioData string `json:"audio_data"`
	Format    string `json:"format"`   // wav, mp3, flac, m4a
	Language  string `json:"language"` // BCP 47 code such as en-US
}

// VoiceCommand is the interpreted intent of a transcribed utterance.
type VoiceCommand struct {
	Intent        string            `json:"intent"`
	Confidence    float64           `json:"confidence"`
	Entities      map[string]string `json:"entities"`
	OriginalText  string            `json:"original_text"`
	ProcessedText string            `json:"processed_text"`
}

// VoiceResult is the response of POST /api/voice/process.
type VoiceResult struct {
	Status           string        `json:"status"`
	TranscribedText  string        `json:"transcribed_text"`
	ProcessedCommand *VoiceCommand `json:"processed_command,omitempty"`
	Confidence       float64       `json:"confidence,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// VoiceMetadata is attached to chat responses that originated as voice.
type VoiceMetadata struct {
	Transcription string            `json:"transcription"`
	Intent        string            `json:"intent"`
	Entities      map[string]string `json:"entities"`
	Confidence    float64           `json:"confidence"`
}

// VoiceCapabilities describes what the voice pipeline supports.
type VoiceCapabilities struct {
	SupportedFormats   []string `json:"supported_formats"`
	SupportedLanguages []string `json:"supported_languages"`
	MaxAudioDuration   int      `json:"max_audio_duration"` // seconds
	MaxFileSize        int      `json:"max_file_size"`      // bytes
	Features           []string `json:"features"`
}
