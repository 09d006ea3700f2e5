// director is the terminal client: profile setup, AI topic selection,
// camera recording and the director's review, backed by director-server.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/shuleihust/ai-commercial-ip-director/internal/app"
	"github.com/shuleihust/ai-commercial-ip-director/internal/audio"
	"github.com/shuleihust/ai-commercial-ip-director/internal/capture"
	"github.com/shuleihust/ai-commercial-ip-director/internal/db"
	"github.com/shuleihust/ai-commercial-ip-director/internal/gateway"
)

func main() {
	godotenv.Load()

	serverURL := os.Getenv("DIRECTOR_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8790"
	}

	session := capture.NewSession(&capture.FFmpegDevice{})
	defer session.Release()

	audioCtx := audio.NewContext(audio.OpenFFplay)
	defer audioCtx.Close()

	// The journal is best-effort; the session runs fine without it.
	store, err := db.OpenScratch()
	if err == nil {
		defer store.Close()
	}

	m := app.New(app.Config{
		Gateway: gateway.NewClient(serverURL),
		Session: session,
		Speech:  audio.NewPlayer(audioCtx),
		Store:   store,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
