package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// API is the gateway surface the workflow depends on. All three operations
// are idempotent request/response calls.
type API interface {
	GenerateTopics(ctx context.Context, profile topic.UserProfile) ([]topic.Generated, error)
	AnalyzeVideo(ctx context.Context, artifact *topic.Artifact, question string) (*topic.AnalysisResult, error)
	SynthesizeSpeech(ctx context.Context, text string, voice VoicePreset) ([]byte, error)
}

// Client talks to the director server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// NewClient builds a client for the given server base URL. The timeout is
// generous because analysis uploads whole video takes in one request.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

// GenerateTopics asks for a fresh batch of interview questions. The caller
// must not assume any particular count.
func (c *Client) GenerateTopics(ctx context.Context, profile topic.UserProfile) ([]topic.Generated, error) {
	var resp GenerateTopicsResponse
	if err := c.post(ctx, "/api/generate-topics", GenerateTopicsRequest{Profile: profile}, &resp); err != nil {
		return nil, &GenerationError{Err: err}
	}
	if len(resp.Topics) == 0 {
		return nil, &GenerationError{Err: fmt.Errorf("empty topic batch")}
	}
	return resp.Topics, nil
}

// AnalyzeVideo uploads the recorded take for transcription, viral-structure
// remixing, scoring and coaching suggestions.
func (c *Client) AnalyzeVideo(ctx context.Context, artifact *topic.Artifact, question string) (*topic.AnalysisResult, error) {
	if artifact == nil || len(artifact.Data) == 0 {
		return nil, &AnalysisError{Err: fmt.Errorf("no video data")}
	}
	mime := artifact.MIMEType
	if mime == "" {
		mime = "video/webm"
	}
	req := AnalyzeVideoRequest{
		VideoBase64: base64.StdEncoding.EncodeToString(artifact.Data),
		MimeType:    mime,
		Question:    question,
	}
	var result topic.AnalysisResult
	if err := c.post(ctx, "/api/analyze-video", req, &result); err != nil {
		return nil, &AnalysisError{Err: err}
	}
	if result.Transcript == "" {
		return nil, &AnalysisError{Err: fmt.Errorf("malformed analysis: missing transcript")}
	}
	return &result, nil
}

// SynthesizeSpeech returns a spoken rendition of the text as raw 16-bit LE
// PCM, mono, 24 kHz.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string, voice VoicePreset) ([]byte, error) {
	var resp GenerateSpeechResponse
	req := GenerateSpeechRequest{Text: text, VoiceName: voice.VoiceName()}
	if err := c.post(ctx, "/api/generate-speech", req, &resp); err != nil {
		return nil, &SynthesisError{Err: err}
	}
	if resp.AudioBase64 == "" {
		return nil, &SynthesisError{Err: fmt.Errorf("no audio payload returned")}
	}
	pcm, err := base64.StdEncoding.DecodeString(resp.AudioBase64)
	if err != nil {
		return nil, &SynthesisError{Err: fmt.Errorf("decode audio payload: %w", err)}
	}
	return pcm, nil
}

// post sends one JSON request and decodes one JSON response.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var fail ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &fail) == nil && fail.Error != "" {
			return fmt.Errorf("server error %s: %s", resp.Status, fail.Error)
		}
		return fmt.Errorf("server error %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
