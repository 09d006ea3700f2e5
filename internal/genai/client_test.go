package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// newTestClient points a client at a stub Gemini endpoint.
func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("test-key")
	c.baseURL = srv.URL
	return c, srv
}

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestGenerateTopicsWire(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(textResponse(`[{"question":"q1","reasoning":"r1"},{"question":"q2","reasoning":"r2"}]`)))
	})
	defer srv.Close()

	topics, err := c.GenerateTopics(context.Background(), topic.UserProfile{
		Name: "张医生", Product: "理财咨询", TargetAudience: "企业高管",
	})
	if err != nil {
		t.Fatalf("GenerateTopics: %v", err)
	}

	if !strings.Contains(gotPath, "gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMimeType != "application/json" {
		t.Error("topic generation must request structured JSON output")
	}
	if gotBody.GenerationConfig.Temperature == nil || *gotBody.GenerationConfig.Temperature != 1.0 {
		t.Error("temperature should be 1.0")
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	for _, field := range []string{"张医生", "理财咨询", "企业高管"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt missing %q", field)
		}
	}

	if len(topics) != 2 || topics[0].Question != "q1" || topics[1].Reasoning != "r2" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestAnalyzeVideoWire(t *testing.T) {
	var gotBody generateRequest

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(textResponse(`{
			"transcript": "转录",
			"viralStructure": {"hook": "h", "painPoint": "p", "solution": "s", "cta": "c"},
			"score": {"traffic": 80, "leads": 70, "total": 75},
			"suggestions": ["建议一"]
		}`)))
	})
	defer srv.Close()

	result, err := c.AnalyzeVideo(context.Background(), "AAAA", "video/webm", "你的故事?")
	if err != nil {
		t.Fatalf("AnalyzeVideo: %v", err)
	}

	parts := gotBody.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want video + prompt", len(parts))
	}
	if parts[0].InlineData == nil || parts[0].InlineData.Data != "AAAA" || parts[0].InlineData.MimeType != "video/webm" {
		t.Errorf("inline data = %+v", parts[0].InlineData)
	}
	if !strings.Contains(parts[1].Text, "你的故事?") {
		t.Error("prompt should embed the question")
	}

	if result.Transcript != "转录" || result.Score.Total != 75 {
		t.Errorf("result = %+v", result)
	}
	if result.ViralStructure.Hook != "h" || len(result.Suggestions) != 1 {
		t.Errorf("structure = %+v, suggestions = %v", result.ViralStructure, result.Suggestions)
	}
}

func TestSynthesizeSpeechWire(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{
						"inlineData": map[string]any{"mimeType": "audio/pcm", "data": "UENN"},
					}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer srv.Close()

	audio, err := c.SynthesizeSpeech(context.Background(), "请朗读", "Fenrir")
	if err != nil {
		t.Fatalf("SynthesizeSpeech: %v", err)
	}

	if !strings.Contains(gotPath, "gemini-2.5-flash-preview-tts:generateContent") {
		t.Errorf("path = %q, want tts model", gotPath)
	}
	cfg := gotBody.GenerationConfig
	if cfg == nil || len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != "AUDIO" {
		t.Error("synthesis must request the AUDIO modality")
	}
	if cfg.SpeechConfig == nil || cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Fenrir" {
		t.Errorf("speech config = %+v", cfg.SpeechConfig)
	}
	if audio != "UENN" {
		t.Errorf("audio = %q, payload must pass through undecoded", audio)
	}
}

func TestSynthesizeSpeechDefaultVoice(t *testing.T) {
	var gotBody generateRequest
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"UENN"}}]}}]}`))
	})
	defer srv.Close()

	if _, err := c.SynthesizeSpeech(context.Background(), "文本", ""); err != nil {
		t.Fatalf("SynthesizeSpeech: %v", err)
	}
	if got := gotBody.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Zephyr" {
		t.Errorf("voice = %q, want Zephyr default", got)
	}
}

func TestUpstreamErrorSurfaced(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := c.GenerateTopics(context.Background(), topic.UserProfile{Name: "a", Product: "b", TargetAudience: "c"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err = %v, should carry upstream detail", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.GenerateTopics(context.Background(), topic.UserProfile{Name: "a", Product: "b", TargetAudience: "c"})
	if err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
