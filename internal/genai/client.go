// Package genai is a minimal REST client for the Gemini generateContent API,
// covering structured JSON output, inline video input and speech synthesis.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel    = "gemini-2.5-flash"
	defaultTTSModel = "gemini-2.5-flash-preview-tts"
)

// Client calls the Gemini API with a server-held key. The key never reaches
// the capture/workflow client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	ttsModel   string
	httpClient *http.Client
}

// NewClient builds a client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		model:    defaultModel,
		ttsModel: defaultTTSModel,
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// request/response shapes for generateContent. Only the fields this app
// touches are modeled.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature        *float64      `json:"temperature,omitempty"`
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     any           `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateTopics plans a small batch of high-potential interview questions
// for the profile. Content comes back in Simplified Chinese.
func (c *Client) GenerateTopics(ctx context.Context, profile topic.UserProfile) ([]topic.Generated, error) {
	prompt := fmt.Sprintf(topicsPrompt, profile.Name, profile.Product, profile.TargetAudience)
	temp := 1.0

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:      &temp,
			ResponseMimeType: "application/json",
			ResponseSchema: map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"question":  map[string]any{"type": "STRING"},
						"reasoning": map[string]any{"type": "STRING"},
					},
					"required": []string{"question", "reasoning"},
				},
			},
		},
	}

	text, err := c.generateText(ctx, c.model, req)
	if err != nil {
		return nil, err
	}

	var batch []topic.Generated
	if err := json.Unmarshal([]byte(text), &batch); err != nil {
		return nil, fmt.Errorf("parse topic batch: %w", err)
	}
	return batch, nil
}

// AnalyzeVideo transcribes the take, remixes the transcript into the viral
// structure, scores it and suggests improvements.
func (c *Client) AnalyzeVideo(ctx context.Context, videoBase64, mimeType, question string) (*topic.AnalysisResult, error) {
	if mimeType == "" {
		mimeType = "video/webm"
	}
	prompt := fmt.Sprintf(analysisPrompt, question)

	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: videoBase64}},
			{Text: prompt},
		}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"transcript": map[string]any{"type": "STRING"},
					"viralStructure": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"hook":      map[string]any{"type": "STRING"},
							"painPoint": map[string]any{"type": "STRING"},
							"solution":  map[string]any{"type": "STRING"},
							"cta":       map[string]any{"type": "STRING"},
						},
					},
					"score": map[string]any{
						"type": "OBJECT",
						"properties": map[string]any{
							"traffic": map[string]any{"type": "NUMBER"},
							"leads":   map[string]any{"type": "NUMBER"},
							"total":   map[string]any{"type": "NUMBER"},
						},
					},
					"suggestions": map[string]any{
						"type":  "ARRAY",
						"items": map[string]any{"type": "STRING"},
					},
				},
			},
		},
	}

	text, err := c.generateText(ctx, c.model, req)
	if err != nil {
		return nil, err
	}

	var result topic.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	return &result, nil
}

// SynthesizeSpeech renders the text with a prebuilt voice and returns the
// base64 PCM payload untouched.
func (c *Client) SynthesizeSpeech(ctx context.Context, text, voiceName string) (string, error) {
	if voiceName == "" {
		voiceName = "Zephyr"
	}
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceName},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.ttsModel, req)
	if err != nil {
		return "", err
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData.Data, nil
			}
		}
	}
	return "", fmt.Errorf("no audio payload in response")
}

// generateText runs generateContent and returns the first text part.
func (c *Client) generateText(ctx context.Context, model string, req generateRequest) (string, error) {
	resp, err := c.generate(ctx, model, req)
	if err != nil {
		return "", err
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no text in response")
}

func (c *Client) generate(ctx context.Context, model string, payload generateRequest) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("genai client misconfigured: missing api key")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}
