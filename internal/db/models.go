// Package db keeps a session-scoped journal of topics and analyses in
// SQLite. The database lives in a scratch file for the lifetime of one
// session and is removed at teardown; nothing persists across sessions.
package db

import "time"

// Session is one planning/recording session for a profile.
type Session struct {
	ID             string
	ProfileName    string
	Product        string
	TargetAudience string
	StartedAt      time.Time
}

// TopicRow mirrors one interview topic as journaled.
type TopicRow struct {
	ID        string
	SessionID string
	Question  string
	Reasoning string
	Status    string
	Position  int
	CreatedAt time.Time
}

// AnalysisRow is one completed analysis as journaled.
type AnalysisRow struct {
	ID           string
	TopicID      string
	Transcript   string
	Hook         string
	PainPoint    string
	Solution     string
	CTA          string
	TrafficScore int
	LeadsScore   int
	TotalScore   int
	Suggestions  []string
	CreatedAt    time.Time
}
