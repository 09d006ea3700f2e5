package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shuleihust/ai-commercial-ip-director/internal/gateway"
)

// maxVideoBody bounds analyze-video request bodies. Takes are short clips,
// but base64 inflates them by a third.
const maxVideoBody = 64 << 20 // 64MB

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerateTopics(w http.ResponseWriter, r *http.Request) {
	var req gateway.GenerateTopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求格式")
		return
	}
	if err := req.Profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "缺少必要的用户画像信息")
		return
	}

	topics, err := s.ai.GenerateTopics(r.Context(), req.Profile)
	if err != nil {
		s.log.Printf("generate topics failed: %v", err)
		writeError(w, http.StatusInternalServerError, "生成选题失败")
		return
	}
	writeJSON(w, http.StatusOK, gateway.GenerateTopicsResponse{Topics: topics})
}

func (s *Server) handleAnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVideoBody)

	var req gateway.AnalyzeVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求格式")
		return
	}
	if req.VideoBase64 == "" || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "缺少视频数据或问题")
		return
	}

	result, err := s.ai.AnalyzeVideo(r.Context(), req.VideoBase64, req.MimeType, req.Question)
	if err != nil {
		s.log.Printf("analyze video failed: %v", err)
		writeError(w, http.StatusInternalServerError, "视频分析失败")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateSpeech(w http.ResponseWriter, r *http.Request) {
	var req gateway.GenerateSpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "无效的请求格式")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "缺少文本内容")
		return
	}

	audio, err := s.ai.SynthesizeSpeech(r.Context(), req.Text, req.VoiceName)
	if err != nil {
		s.log.Printf("generate speech failed: %v", err)
		writeError(w, http.StatusInternalServerError, "语音生成失败")
		return
	}
	writeJSON(w, http.StatusOK, gateway.GenerateSpeechResponse{AudioBase64: audio})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, gateway.ErrorResponse{Error: msg})
}
