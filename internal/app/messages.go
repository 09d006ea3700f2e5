package app

import "github.com/shuleihust/ai-commercial-ip-director/internal/topic"

// TopicsGeneratedMsg carries a fresh topic batch from the AI service.
type TopicsGeneratedMsg struct {
	Topics []topic.Generated
}

// TopicsErrorMsg is sent when topic generation fails. Prior topics are left
// untouched.
type TopicsErrorMsg struct {
	Err error
}

// CameraReadyMsg is sent when the capture stream has been acquired.
type CameraReadyMsg struct{}

// CameraErrorMsg is sent when the capture device cannot be opened.
type CameraErrorMsg struct {
	Err error
}

// RecordTickMsg drives the on-screen recording timer.
type RecordTickMsg struct{}

// AnalysisDoneMsg carries a finished analysis for the topic that was active
// when the take was dispatched.
type AnalysisDoneMsg struct {
	TopicID string
	Result  *topic.AnalysisResult
}

// AnalysisErrorMsg is sent when an analysis call fails. The artifact stays
// attached so the topic can be retried.
type AnalysisErrorMsg struct {
	TopicID string
	Err     error
}

// SpeechReadyMsg carries synthesized preview audio as raw PCM bytes.
type SpeechReadyMsg struct {
	PCM []byte
}

// SpeechErrorMsg is sent when speech synthesis fails.
type SpeechErrorMsg struct {
	Err error
}

// PlaybackDoneMsg is sent when a speech preview finishes or is stopped.
type PlaybackDoneMsg struct{}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}

// journalOpenedMsg carries the journal session id once it exists.
type journalOpenedMsg struct {
	sessionID string
}
