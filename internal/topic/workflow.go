package topic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step is the top-level screen of the session.
type Step int

const (
	StepSetup Step = iota
	StepTopicSelection
	StepRecording
	StepReview
)

// Generated is one freshly generated question before it becomes a Topic.
type Generated struct {
	Question  string `json:"question"`
	Reasoning string `json:"reasoning"`
}

// Reasoning tag attached to user-authored topics.
const CustomReasoning = "用户自定义选题"

var (
	ErrEmptyTopic    = errors.New("custom topic text is empty")
	ErrUnknownTopic  = errors.New("unknown topic id")
	ErrNotAnalyzable = errors.New("topic has no retained artifact to analyze")
	ErrBadTransition = errors.New("invalid topic status transition")
)

// Workflow owns the ordered topic list and the session step machine.
// All mutation goes through its methods so the lifecycle invariants hold:
// analysis only ever appears on COMPLETED topics, artifacts survive failed
// analysis, and no topic regresses from COMPLETED.
type Workflow struct {
	profile    UserProfile
	hasProfile bool
	topics     []Topic
	step       Step
	currentID  string
}

// NewWorkflow starts a session at the setup screen with no topics.
func NewWorkflow() *Workflow {
	return &Workflow{step: StepSetup}
}

// Step returns the current session step.
func (w *Workflow) Step() Step { return w.step }

// Topics returns the ordered topic list.
func (w *Workflow) Topics() []Topic { return w.topics }

// Profile returns the submitted profile, if any.
func (w *Workflow) Profile() (UserProfile, bool) { return w.profile, w.hasProfile }

// SetProfile validates and stores the profile. Replaces any prior profile
// wholesale; profiles are never edited in place.
func (w *Workflow) SetProfile(p UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.profile = p
	w.hasProfile = true
	return nil
}

// ActiveTopic returns the topic selected for recording or review.
func (w *Workflow) ActiveTopic() (*Topic, bool) {
	if w.currentID == "" {
		return nil, false
	}
	return w.byID(w.currentID)
}

// ActiveTopicID returns the id remembered at selection time.
func (w *Workflow) ActiveTopicID() string { return w.currentID }

func (w *Workflow) byID(id string) (*Topic, bool) {
	for i := range w.topics {
		if w.topics[i].ID == id {
			return &w.topics[i], true
		}
	}
	return nil, false
}

// ReplaceTopics swaps in a freshly generated batch as PENDING entries and
// moves to the selection screen. The whole collection is replaced; callers
// must confirm with the user before regenerating over recorded work, and must
// not call this at all when generation failed (prior topics stay untouched).
func (w *Workflow) ReplaceTopics(batch []Generated) {
	now := time.Now().UnixMilli()
	topics := make([]Topic, 0, len(batch))
	for i, g := range batch {
		topics = append(topics, Topic{
			ID:        fmt.Sprintf("topic-%d-%d", now, i),
			Question:  g.Question,
			Reasoning: g.Reasoning,
			Status:    StatusPending,
		})
	}
	w.topics = topics
	w.currentID = ""
	w.step = StepTopicSelection
}

// AddCustom appends a user-authored PENDING topic. Whitespace-only text is
// rejected before any id is minted. Existing topics keep their ids and order.
func (w *Workflow) AddCustom(text string) (Topic, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Topic{}, ErrEmptyTopic
	}
	t := Topic{
		ID:        "custom-" + uuid.NewString(),
		Question:  text,
		Reasoning: CustomReasoning,
		Status:    StatusPending,
	}
	w.topics = append(w.topics, t)
	return t, nil
}

// SetScript attaches or replaces teleprompter text. Status is untouched.
func (w *Workflow) SetScript(id, script string) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	t.Script = script
	return nil
}

// Select opens a topic: COMPLETED topics jump straight to review, anything
// else goes to the recording screen. Review never re-triggers capture.
func (w *Workflow) Select(id string) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	w.currentID = id
	if t.Status == StatusCompleted {
		w.step = StepReview
	} else {
		w.step = StepRecording
	}
	return nil
}

// CancelRecording abandons the recording screen without touching status.
func (w *Workflow) CancelRecording() {
	w.step = StepTopicSelection
}

// StartAnalysis attaches the finished artifact and marks the topic
// ANALYZING. The topic passes through RECORDED on the way: a completed
// capture is a stable state to revert to if the analysis call fails.
func (w *Workflow) StartAnalysis(id string, artifact *Artifact) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	if t.Status == StatusCompleted || t.Status == StatusAnalyzing {
		return ErrBadTransition
	}
	t.Artifact = artifact
	t.Status = StatusRecorded
	t.Status = StatusAnalyzing
	return nil
}

// RetryAnalysis re-dispatches a topic whose previous analysis failed. The
// retained artifact is reused; no re-capture is needed.
func (w *Workflow) RetryAnalysis(id string) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	if t.Status != StatusRecorded {
		return ErrBadTransition
	}
	if t.Artifact == nil {
		return ErrNotAnalyzable
	}
	t.Status = StatusAnalyzing
	return nil
}

// CompleteAnalysis attaches the result to the topic id captured at dispatch
// time, not whichever topic is active now, and opens review of that topic.
// When the user is mid-recording another topic the result is attached but
// navigation is deferred: a background completion never tears down an active
// recording screen.
func (w *Workflow) CompleteAnalysis(id string, result *AnalysisResult) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	if t.Status != StatusAnalyzing {
		return ErrBadTransition
	}
	t.Analysis = result
	t.Status = StatusCompleted
	if w.step != StepRecording {
		w.currentID = id
		w.step = StepReview
	}
	return nil
}

// FailAnalysis reverts a failed analysis to RECORDED. The artifact stays
// attached for retry and the step is left wherever it was.
func (w *Workflow) FailAnalysis(id string) error {
	t, ok := w.byID(id)
	if !ok {
		return ErrUnknownTopic
	}
	if t.Status != StatusAnalyzing {
		return ErrBadTransition
	}
	t.Status = StatusRecorded
	return nil
}

// HasPending reports whether any topic is still waiting to be recorded.
func (w *Workflow) HasPending() bool {
	for i := range w.topics {
		if w.topics[i].Status == StatusPending {
			return true
		}
	}
	return false
}

// AllCompleted reports whether every topic has an attached analysis.
func (w *Workflow) AllCompleted() bool {
	if len(w.topics) == 0 {
		return false
	}
	for i := range w.topics {
		if w.topics[i].Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Advance leaves the review screen. It always returns to topic selection;
// the selection screen renders the fully-completed state itself. The return
// value reports whether every topic is done, for the completion notice.
func (w *Workflow) Advance() bool {
	w.step = StepTopicSelection
	return !w.HasPending()
}
