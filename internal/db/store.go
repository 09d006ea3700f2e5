package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		profileName TEXT NOT NULL,
		product TEXT NOT NULL,
		targetAudience TEXT NOT NULL,
		startedAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		sessionId TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		question TEXT NOT NULL,
		reasoning TEXT NOT NULL,
		status TEXT NOT NULL,
		position INTEGER NOT NULL,
		createdAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		topicId TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		transcript TEXT NOT NULL,
		hook TEXT NOT NULL,
		painPoint TEXT NOT NULL,
		solution TEXT NOT NULL,
		cta TEXT NOT NULL,
		trafficScore INTEGER NOT NULL,
		leadsScore INTEGER NOT NULL,
		totalScore INTEGER NOT NULL,
		suggestions TEXT NOT NULL,
		createdAt REAL NOT NULL
	);
`

// Store journals session activity into SQLite.
type Store struct {
	db      *sql.DB
	path    string
	scratch bool
}

// Open opens (creating if needed) a journal at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenScratch opens a journal in a fresh temp file that Close removes.
// Keeps the journal strictly session-lived.
func OpenScratch() (*Store, error) {
	path := filepath.Join(os.TempDir(), "director-"+uuid.NewString()+".sqlite")
	store, err := Open(path)
	if err != nil {
		return nil, err
	}
	store.scratch = true
	return store, nil
}

// Close closes the journal, deleting the scratch file if it owns one.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.scratch {
		os.Remove(s.path)
		os.Remove(s.path + "-wal")
		os.Remove(s.path + "-shm")
	}
	return err
}

// CreateSession records the start of a session and returns its id.
func (s *Store) CreateSession(profile topic.UserProfile) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, profileName, product, targetAudience, startedAt)
		VALUES (?, ?, ?, ?, ?)
	`, id, profile.Name, profile.Product, profile.TargetAudience, unixNow())
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// ReplaceTopics journals a full topic batch, dropping whatever batch was
// journaled for the session before. Mirrors the workflow's full-batch swap.
func (s *Store) ReplaceTopics(sessionID string, topics []topic.Topic) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM topics WHERE sessionId = ?`, sessionID); err != nil {
		return fmt.Errorf("clear topics: %w", err)
	}
	now := unixNow()
	for i, t := range topics {
		_, err := tx.Exec(`
			INSERT INTO topics (id, sessionId, question, reasoning, status, position, createdAt)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, t.ID, sessionID, t.Question, t.Reasoning, string(t.Status), i, now)
		if err != nil {
			return fmt.Errorf("insert topic: %w", err)
		}
	}
	return tx.Commit()
}

// AppendTopic journals one added topic at the end of the batch.
func (s *Store) AppendTopic(sessionID string, t topic.Topic) error {
	var position int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(position)+1, 0) FROM topics WHERE sessionId = ?
	`, sessionID).Scan(&position)
	if err != nil {
		return fmt.Errorf("next position: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO topics (id, sessionId, question, reasoning, status, position, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, sessionID, t.Question, t.Reasoning, string(t.Status), position, unixNow())
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	return nil
}

// SetTopicStatus journals a lifecycle transition.
func (s *Store) SetTopicStatus(topicID string, status topic.Status) error {
	_, err := s.db.Exec(`UPDATE topics SET status = ? WHERE id = ?`, string(status), topicID)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// SaveAnalysis journals a completed analysis for a topic.
func (s *Store) SaveAnalysis(topicID string, result *topic.AnalysisResult) error {
	suggestions, err := json.Marshal(result.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO analyses (id, topicId, transcript, hook, painPoint, solution, cta,
			trafficScore, leadsScore, totalScore, suggestions, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), topicID, result.Transcript,
		result.ViralStructure.Hook, result.ViralStructure.PainPoint,
		result.ViralStructure.Solution, result.ViralStructure.CTA,
		result.Score.Traffic, result.Score.Leads, result.Score.Total,
		string(suggestions), unixNow())
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// TopicsForSession returns the journaled batch in position order.
func (s *Store) TopicsForSession(sessionID string) ([]TopicRow, error) {
	rows, err := s.db.Query(`
		SELECT id, sessionId, question, reasoning, status, position, createdAt
		FROM topics
		WHERE sessionId = ?
		ORDER BY position ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []TopicRow
	for rows.Next() {
		var t TopicRow
		var createdAt float64
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Question, &t.Reasoning,
			&t.Status, &t.Position, &createdAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		t.CreatedAt = timeFromUnix(createdAt)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// AnalysisForTopic returns the journaled analysis, or nil when none exists.
func (s *Store) AnalysisForTopic(topicID string) (*AnalysisRow, error) {
	row := s.db.QueryRow(`
		SELECT id, topicId, transcript, hook, painPoint, solution, cta,
			trafficScore, leadsScore, totalScore, suggestions, createdAt
		FROM analyses
		WHERE topicId = ?
		ORDER BY createdAt DESC
		LIMIT 1
	`, topicID)

	var a AnalysisRow
	var suggestions string
	var createdAt float64
	if err := row.Scan(&a.ID, &a.TopicID, &a.Transcript, &a.Hook, &a.PainPoint,
		&a.Solution, &a.CTA, &a.TrafficScore, &a.LeadsScore, &a.TotalScore,
		&suggestions, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestions), &a.Suggestions); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	a.CreatedAt = timeFromUnix(createdAt)
	return &a, nil
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
