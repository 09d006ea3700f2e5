// director-server holds the Gemini API key and proxies the three AI
// operations for director clients.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/shuleihust/ai-commercial-ip-director/internal/genai"
	"github.com/shuleihust/ai-commercial-ip-director/internal/server"
)

func main() {
	// Load .env in dev only; production injects env vars through infra.
	if os.Getenv("APP_ENV") != "production" {
		godotenv.Load()
	}

	logger := log.New(os.Stderr, "director-server ", log.LstdFlags)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Fatal("GEMINI_API_KEY is required")
	}

	srv := server.New(genai.NewClient(apiKey), logger)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{allowedOrigins}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8790"
	}

	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: handlers.LoggingHandler(os.Stderr, cors(srv.Router())),
		// Analysis uploads whole takes and waits on the model, so the
		// write timeout has to outlast a slow analysis round-trip.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Printf("listening on :%s", port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error: ", err)
		}
	}()

	<-quit
	logger.Println("shutdown signal received, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown: ", err)
	}
	logger.Println("server stopped")
}
