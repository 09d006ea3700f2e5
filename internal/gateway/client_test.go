package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

func testProfile() topic.UserProfile {
	return topic.UserProfile{
		Name:           "Dr. Lee",
		Product:        "wealth coaching",
		TargetAudience: "executives 35-50",
	}
}

func TestGenerateTopics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-topics" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req GenerateTopicsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Profile.Name != "Dr. Lee" {
			t.Errorf("profile name = %q", req.Profile.Name)
		}
		json.NewEncoder(w).Encode(GenerateTopicsResponse{Topics: []topic.Generated{
			{Question: "q1", Reasoning: "r1"},
			{Question: "q2", Reasoning: "r2"},
			{Question: "q3", Reasoning: "r3"},
		}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.GenerateTopics(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("GenerateTopics: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("topics = %d, want 3", len(got))
	}
	if got[0].Question != "q1" || got[2].Reasoning != "r3" {
		t.Errorf("topics out of order: %+v", got)
	}
}

func TestGenerateTopicsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "生成选题失败"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GenerateTopics(context.Background(), testProfile())

	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("error = %v, want GenerationError", err)
	}
}

func TestAnalyzeVideo(t *testing.T) {
	video := []byte("fake-webm-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		raw, err := base64.StdEncoding.DecodeString(req.VideoBase64)
		if err != nil || string(raw) != string(video) {
			t.Errorf("video payload corrupted in transit")
		}
		if req.MimeType != "video/webm" {
			t.Errorf("mime = %q", req.MimeType)
		}
		if req.Question != "为什么会失败?" {
			t.Errorf("question = %q", req.Question)
		}
		json.NewEncoder(w).Encode(topic.AnalysisResult{
			Transcript:     "完整转录",
			ViralStructure: topic.ViralStructure{Hook: "开场", CTA: ""},
			Score:          topic.Score{Traffic: 80, Leads: 70, Total: 75},
			Suggestions:    []string{"建议一", "建议二", "建议三"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	art := &topic.Artifact{Data: video, MIMEType: "video/webm"}
	res, err := c.AnalyzeVideo(context.Background(), art, "为什么会失败?")
	if err != nil {
		t.Fatalf("AnalyzeVideo: %v", err)
	}
	if res.Transcript != "完整转录" {
		t.Errorf("transcript = %q", res.Transcript)
	}
	if res.Score.Total != 75 {
		t.Errorf("total = %d", res.Score.Total)
	}
	if len(res.Suggestions) != 3 {
		t.Errorf("suggestions = %d", len(res.Suggestions))
	}
}

func TestAnalyzeVideoNoData(t *testing.T) {
	c := NewClient("http://unused")
	_, err := c.AnalyzeVideo(context.Background(), nil, "q")
	var anErr *AnalysisError
	if !errors.As(err, &anErr) {
		t.Fatalf("error = %v, want AnalysisError", err)
	}
}

func TestAnalyzeVideoMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	art := &topic.Artifact{Data: []byte("x"), MIMEType: "video/webm"}
	_, err := c.AnalyzeVideo(context.Background(), art, "q")
	var anErr *AnalysisError
	if !errors.As(err, &anErr) {
		t.Fatalf("error = %v, want AnalysisError for missing transcript", err)
	}
}

func TestSynthesizeSpeech(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0x80}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateSpeechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.VoiceName != "Fenrir" {
			t.Errorf("voiceName = %q, want Fenrir for broadcast preset", req.VoiceName)
		}
		json.NewEncoder(w).Encode(GenerateSpeechResponse{
			AudioBase64: base64.StdEncoding.EncodeToString(pcm),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.SynthesizeSpeech(context.Background(), "你好", VoiceBroadcast)
	if err != nil {
		t.Fatalf("SynthesizeSpeech: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("pcm bytes corrupted in transit")
	}
}

func TestSynthesizeSpeechNoAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateSpeechResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.SynthesizeSpeech(context.Background(), "你好", VoiceTaiwanese)
	var synErr *SynthesisError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want SynthesisError", err)
	}
}

func TestVoicePresetNames(t *testing.T) {
	cases := map[VoicePreset]string{
		VoiceTaiwanese: "Zephyr",
		VoiceBroadcast: "Fenrir",
		VoiceTeacher:   "Kore",
	}
	for preset, want := range cases {
		if got := preset.VoiceName(); got != want {
			t.Errorf("%s -> %q, want %q", preset, got, want)
		}
	}
}
