package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/brandcheck"
	"github.com/briteco/brief/internal/research"
)

// Store persists assembled issues, brand reports, and the research
// prefetch cache using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a SQLite-backed store at the given path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// init creates the necessary tables if they don't exist
func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS issues (
			id           TEXT PRIMARY KEY,
			created_at   TEXT NOT NULL,
			subject_line TEXT,
			preheader    TEXT,
			sections     TEXT NOT NULL,
			failures     TEXT
		);

		CREATE TABLE IF NOT EXISTS brand_reports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			issue_id   TEXT NOT NULL,
			created_at TEXT NOT NULL,
			issues     TEXT NOT NULL,
			FOREIGN KEY (issue_id) REFERENCES issues(id)
		);

		CREATE TABLE IF NOT EXISTS topic_cache (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			fetched_at TEXT NOT NULL,
			topics     TEXT NOT NULL,
			roundup    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_issues_created ON issues(created_at);
		CREATE INDEX IF NOT EXISTS idx_reports_issue ON brand_reports(issue_id);
	`)
	return err
}

// SaveIssue stores an assembled issue draft. Saving the same id again
// replaces the stored draft (regeneration supersedes).
func (s *Store) SaveIssue(issue *assembler.IssueDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO issues (id, created_at, subject_line, preheader, sections, failures)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_line=excluded.subject_line, preheader=excluded.preheader,
			sections=excluded.sections, failures=excluded.failures
	`, issue.ID, issue.CreatedAt.Format(time.RFC3339), issue.SubjectLine, issue.Preheader,
		toJSON(issue.Sections), toJSON(issue.Failures))
	return err
}

// GetIssue loads one issue draft by id.
func (s *Store) GetIssue(id string) (*assembler.IssueDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, created_at, subject_line, preheader, sections, failures
		FROM issues
		WHERE id = ?
	`, id)

	return scanIssue(row)
}

// IssueSummary is a listing row for stored issues.
type IssueSummary struct {
	ID          string    `json:"id"`
	SubjectLine string    `json:"subject_line"`
	CreatedAt   time.Time `json:"created_at"`
	Sections    int       `json:"sections"`
	Failures    int       `json:"failures"`
}

// ListIssues returns recent issues, newest first.
func (s *Store) ListIssues(limit int) ([]IssueSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, subject_line, sections, failures
		FROM issues
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []IssueSummary
	for rows.Next() {
		var sum IssueSummary
		var createdAt string
		var sections string
		var failures sql.NullString

		if err := rows.Scan(&sum.ID, &createdAt, &sum.SubjectLine, &sections, &failures); err != nil {
			return nil, err
		}

		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sum.CreatedAt = t
		}
		var sectionMap map[string]assembler.SectionDraft
		if fromJSON(sections, &sectionMap) == nil {
			sum.Sections = len(sectionMap)
		}
		if failures.Valid {
			var failureMap map[string]string
			if fromJSON(failures.String, &failureMap) == nil {
				sum.Failures = len(failureMap)
			}
		}

		summaries = append(summaries, sum)
	}

	return summaries, rows.Err()
}

// SaveBrandReport stores the checker's findings for an issue.
func (s *Store) SaveBrandReport(issueID string, issues []brandcheck.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO brand_reports (issue_id, created_at, issues)
		VALUES (?, ?, ?)
	`, issueID, time.Now().UTC().Format(time.RFC3339), toJSON(issues))
	return err
}

// GetBrandReport loads the latest brand report for an issue.
func (s *Store) GetBrandReport(issueID string) ([]brandcheck.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT issues
		FROM brand_reports
		WHERE issue_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, issueID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}

	var issues []brandcheck.Issue
	if err := fromJSON(raw, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// TopicCache is a research prefetch snapshot written by the scheduler.
type TopicCache struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Topics    []research.Topic `json:"topics"`
	Roundup   []research.Item  `json:"roundup,omitempty"`
}

// SaveTopicCache records a research prefetch snapshot.
func (s *Store) SaveTopicCache(cache *TopicCache) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO topic_cache (fetched_at, topics, roundup)
		VALUES (?, ?, ?)
	`, cache.FetchedAt.Format(time.RFC3339), toJSON(cache.Topics), toJSON(cache.Roundup))
	return err
}

// LatestTopicCache returns the most recent prefetch snapshot, or nil
// when none exists yet.
func (s *Store) LatestTopicCache() (*TopicCache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT fetched_at, topics, roundup
		FROM topic_cache
		ORDER BY fetched_at DESC
		LIMIT 1
	`)

	var fetchedAt, topics string
	var roundup sql.NullString

	err := row.Scan(&fetchedAt, &topics, &roundup)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cache := &TopicCache{}
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		cache.FetchedAt = t
	}
	if err := fromJSON(topics, &cache.Topics); err != nil {
		return nil, err
	}
	if roundup.Valid {
		_ = fromJSON(roundup.String, &cache.Roundup)
	}
	return cache, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func scanIssue(row *sql.Row) (*assembler.IssueDraft, error) {
	var issue assembler.IssueDraft
	var createdAt, sections string
	var failures sql.NullString

	err := row.Scan(&issue.ID, &createdAt, &issue.SubjectLine, &issue.Preheader, &sections, &failures)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		issue.CreatedAt = t
	}
	if err := fromJSON(sections, &issue.Sections); err != nil {
		return nil, err
	}
	if failures.Valid && failures.String != "" {
		_ = fromJSON(failures.String, &issue.Failures)
	}
	if issue.Failures == nil {
		issue.Failures = make(map[string]string)
	}

	return &issue, nil
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func fromJSON(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
