// Package server exposes the director AI service over HTTP: topic
// generation, video analysis and speech synthesis. It is the only place the
// Gemini key is used; clients only ever see these three routes.
package server

import (
	"context"
	"log"

	"github.com/gorilla/mux"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// AI is the generative backend the handlers call.
type AI interface {
	GenerateTopics(ctx context.Context, profile topic.UserProfile) ([]topic.Generated, error)
	AnalyzeVideo(ctx context.Context, videoBase64, mimeType, question string) (*topic.AnalysisResult, error)
	SynthesizeSpeech(ctx context.Context, text, voiceName string) (string, error)
}

// Server wires the AI backend to the HTTP routes.
type Server struct {
	ai  AI
	log *log.Logger
}

// New creates a server around the AI backend.
func New(ai AI, logger *log.Logger) *Server {
	return &Server{ai: ai, log: logger}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-topics", s.handleGenerateTopics).Methods("POST")
	api.HandleFunc("/analyze-video", s.handleAnalyzeVideo).Methods("POST")
	api.HandleFunc("/generate-speech", s.handleGenerateSpeech).Methods("POST")
	return r
}
