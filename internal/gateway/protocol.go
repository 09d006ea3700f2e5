// Package gateway provides the client and protocol types for the director
// AI service: topic generation, video analysis and speech synthesis as plain
// JSON request/response calls with base64-embedded media payloads.
package gateway

import (
	"fmt"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// VoicePreset selects one of the synthesized-speech voices. The preset is
// passed through to the synthesis request unmodified; the playback side is
// voice-agnostic.
type VoicePreset string

const (
	VoiceTaiwanese VoicePreset = "taiwanese" // 台湾女生
	VoiceBroadcast VoicePreset = "broadcast" // 播音男主持
	VoiceTeacher   VoicePreset = "teacher"   // 女老师
)

// Presets lists the selectable voices in display order.
var Presets = []VoicePreset{VoiceTaiwanese, VoiceBroadcast, VoiceTeacher}

// VoiceName maps a preset to the synthesis backend's prebuilt voice id.
func (v VoicePreset) VoiceName() string {
	switch v {
	case VoiceBroadcast:
		return "Fenrir"
	case VoiceTeacher:
		return "Kore"
	default:
		return "Zephyr"
	}
}

// Label returns the user-facing name for the preset.
func (v VoicePreset) Label() string {
	switch v {
	case VoiceBroadcast:
		return "🎙️ 播音男主持"
	case VoiceTeacher:
		return "👩‍🏫 女老师"
	default:
		return "🇹🇼 台湾女生"
	}
}

// GenerationError reports a failed topic-generation call. Retryable by
// re-invoking the operation; no automatic retry happens.
type GenerationError struct{ Err error }

func (e *GenerationError) Error() string { return fmt.Sprintf("generate topics: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// AnalysisError reports a failed or malformed video-analysis call.
type AnalysisError struct{ Err error }

func (e *AnalysisError) Error() string { return fmt.Sprintf("analyze video: %v", e.Err) }
func (e *AnalysisError) Unwrap() error { return e.Err }

// SynthesisError reports a speech-synthesis call that failed or returned no
// audio payload.
type SynthesisError struct{ Err error }

func (e *SynthesisError) Error() string { return fmt.Sprintf("synthesize speech: %v", e.Err) }
func (e *SynthesisError) Unwrap() error { return e.Err }

// GenerateTopicsRequest asks for a fresh topic batch for one profile.
type GenerateTopicsRequest struct {
	Profile topic.UserProfile `json:"profile"`
}

// GenerateTopicsResponse carries the generated questions in order.
type GenerateTopicsResponse struct {
	Topics []topic.Generated `json:"topics"`
}

// AnalyzeVideoRequest carries one recorded take as base64 plus the question
// it answers.
type AnalyzeVideoRequest struct {
	VideoBase64 string `json:"videoBase64"`
	MimeType    string `json:"mimeType"`
	Question    string `json:"question"`
}

// GenerateSpeechRequest asks for a spoken rendition of the text.
type GenerateSpeechRequest struct {
	Text      string `json:"text"`
	VoiceName string `json:"voiceName"`
}

// GenerateSpeechResponse carries raw 16-bit LE PCM (mono, 24 kHz) as base64.
type GenerateSpeechResponse struct {
	AudioBase64 string `json:"audioBase64"`
}

// ErrorResponse is the service's failure body.
type ErrorResponse struct {
	Error string `json:"error"`
}
