// Package topic holds the interview-topic domain model and the workflow
// that drives each topic through its lifecycle.
package topic

import (
	"errors"
	"strings"
)

// UserProfile is the IP persona the whole session is planned around.
// Immutable once submitted; a new profile starts a fresh generation cycle.
type UserProfile struct {
	Name           string `json:"name"`
	Product        string `json:"product"`
	TargetAudience string `json:"targetAudience"`
}

// ErrProfileIncomplete is returned when a required profile field is blank.
var ErrProfileIncomplete = errors.New("profile requires name, product and target audience")

// Validate checks that all three profile fields are filled in.
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Product) == "" ||
		strings.TrimSpace(p.TargetAudience) == "" {
		return ErrProfileIncomplete
	}
	return nil
}

// Status enumerates the topic lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRecorded  Status = "RECORDED"
	StatusAnalyzing Status = "ANALYZING"
	StatusCompleted Status = "COMPLETED"
)

// Artifact is the finished recorded video blob for one take.
type Artifact struct {
	Data     []byte
	MIMEType string
}

// ViralStructure is the four-part remix of the transcript. Each field is a
// verbatim excerpt from the transcript, or empty when the speaker never
// covered that part.
type ViralStructure struct {
	Hook      string `json:"hook"`
	PainPoint string `json:"painPoint"`
	Solution  string `json:"solution"`
	CTA       string `json:"cta"`
}

// Score rates the take from the commercial-director angle, 0-100 each.
type Score struct {
	Traffic int `json:"traffic"`
	Leads   int `json:"leads"`
	Total   int `json:"total"`
}

// AnalysisResult is the structured coaching output for one recorded take.
// Produced once per successful analysis call and immutable thereafter.
type AnalysisResult struct {
	Transcript     string         `json:"transcript"`
	ViralStructure ViralStructure `json:"viralStructure"`
	Score          Score          `json:"score"`
	Suggestions    []string       `json:"suggestions"`
}

// Topic is one candidate interview question plus its lifecycle state and any
// recorded/analyzed content. The artifact is attached once capture finishes
// and is retained across failed analysis attempts so the user can retry
// without re-recording. Analysis is attached only by the COMPLETED
// transition, so Status == StatusCompleted iff Analysis != nil.
type Topic struct {
	ID        string
	Question  string
	Reasoning string
	Status    Status
	Script    string
	Artifact  *Artifact
	Analysis  *AnalysisResult
}
