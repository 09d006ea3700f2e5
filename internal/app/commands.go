package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shuleihust/ai-commercial-ip-director/internal/capture"
	"github.com/shuleihust/ai-commercial-ip-director/internal/db"
	"github.com/shuleihust/ai-commercial-ip-director/internal/gateway"
	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// generateTopicsCmd asks the AI service for a fresh topic batch.
func generateTopicsCmd(gw gateway.API, profile topic.UserProfile) tea.Cmd {
	return func() tea.Msg {
		topics, err := gw.GenerateTopics(context.Background(), profile)
		if err != nil {
			return TopicsErrorMsg{Err: err}
		}
		return TopicsGeneratedMsg{Topics: topics}
	}
}

// openCameraCmd acquires the capture stream at the given aspect ratio.
func openCameraCmd(session *capture.Session, aspect capture.AspectRatio) tea.Cmd {
	return func() tea.Msg {
		if err := session.Acquire(context.Background(), aspect); err != nil {
			return CameraErrorMsg{Err: err}
		}
		return CameraReadyMsg{}
	}
}

// analyzeCmd uploads a finished take. The topic id is captured here, at
// dispatch time, so the result lands on the right topic no matter what the
// user does while the call is in flight.
func analyzeCmd(gw gateway.API, topicID, question string, artifact *topic.Artifact) tea.Cmd {
	return func() tea.Msg {
		result, err := gw.AnalyzeVideo(context.Background(), artifact, question)
		if err != nil {
			return AnalysisErrorMsg{TopicID: topicID, Err: err}
		}
		return AnalysisDoneMsg{TopicID: topicID, Result: result}
	}
}

// synthesizeCmd fetches preview audio for the text in the chosen voice.
func synthesizeCmd(gw gateway.API, text string, voice gateway.VoicePreset) tea.Cmd {
	return func() tea.Msg {
		pcm, err := gw.SynthesizeSpeech(context.Background(), text, voice)
		if err != nil {
			return SpeechErrorMsg{Err: err}
		}
		return SpeechReadyMsg{PCM: pcm}
	}
}

// playbackWaitCmd resolves once the running preview ends.
func playbackWaitCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return PlaybackDoneMsg{}
	}
}

// recordTickCmd drives the recording timer at one-second resolution.
func recordTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return RecordTickMsg{}
	})
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// openJournalCmd registers the session in the journal. Journal failures are
// never surfaced; the journal is best-effort by design.
func openJournalCmd(store *db.Store, profile topic.UserProfile) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		id, err := store.CreateSession(profile)
		if err != nil {
			return nil
		}
		return journalOpenedMsg{sessionID: id}
	}
}

// journalTopicsCmd mirrors the current topic batch into the journal.
func journalTopicsCmd(store *db.Store, sessionID string, topics []topic.Topic) tea.Cmd {
	if store == nil || sessionID == "" {
		return nil
	}
	return func() tea.Msg {
		store.ReplaceTopics(sessionID, topics)
		return nil
	}
}

// journalStatusCmd mirrors one lifecycle transition into the journal.
func journalStatusCmd(store *db.Store, topicID string, status topic.Status) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.SetTopicStatus(topicID, status)
		return nil
	}
}

// journalAnalysisCmd mirrors a finished analysis into the journal.
func journalAnalysisCmd(store *db.Store, topicID string, result *topic.AnalysisResult) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		store.SaveAnalysis(topicID, result)
		return nil
	}
}
