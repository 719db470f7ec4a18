// Package store provides the SQLite persistence layer for epiwatch.
//
// The store is the source of truth: raw events flow in from ingestion, and
// the anomaly detector reads normalized events back out. All operations are
// single statements or explicit transactions over database/sql.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// Store handles persistence of sources, events, mentions, and alerts.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
//
// The database is created if it doesn't exist, and migrations are applied
// automatically.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		tier INTEGER NOT NULL,
		type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS raw_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL REFERENCES sources(id),
		external_id TEXT NOT NULL,
		title TEXT,
		content TEXT,
		raw_url TEXT,
		published_at TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		UNIQUE(source_id, external_id)
	);

	CREATE TABLE IF NOT EXISTS normalized_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raw_event_id INTEGER NOT NULL UNIQUE REFERENCES raw_events(id),
		title TEXT NOT NULL,
		summary TEXT,
		signal_classification TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		source_tier INTEGER NOT NULL,
		published_at TEXT NOT NULL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_normalized_published ON normalized_events(published_at);

	CREATE TABLE IF NOT EXISTS disease_mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL REFERENCES normalized_events(id),
		disease_name TEXT NOT NULL,
		is_primary INTEGER DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS location_mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL REFERENCES normalized_events(id),
		country TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS outbreak_assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL REFERENCES normalized_events(id),
		assessment_text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TEXT NOT NULL,
		is_read INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS diseases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		pathogen_agent TEXT,
		symptoms TEXT,
		diagnostic_protocols TEXT,
		treatment TEXT,
		vaccine_status TEXT,
		severity_score REAL DEFAULT 5.0,
		classification_reason TEXT
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// UpsertSource inserts or updates a source keyed by its unique URL and
// returns the source identity.
func (s *Store) UpsertSource(src model.Source) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO sources (name, url, tier, type)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			tier = excluded.tier,
			type = excluded.type
		RETURNING id
	`, src.Name, src.URL, src.Tier, string(src.Type)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert source: %w", err)
	}
	return id, nil
}

// UpsertRawEvent inserts or updates a raw event keyed by
// (source_id, external_id) and returns the raw event identity.
// Re-ingesting the same external ID updates the existing row.
func (s *Store) UpsertRawEvent(sourceID int64, ev model.RawEvent) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO raw_events (source_id, external_id, title, content, raw_url, published_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_id, external_id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			raw_url = excluded.raw_url,
			published_at = excluded.published_at,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, sourceID, ev.ExternalID, ev.Title, ev.Content, ev.RawURL, ev.PublishedAt,
		time.Now().UTC().Format(time.RFC3339)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert raw event: %w", err)
	}
	return id, nil
}

// SaveNormalizedEvent persists the classified form of a raw event together
// with its disease/location mentions and assessment, in one transaction.
//
// Writes are idempotent on raw_event_id: re-ingesting an event replaces its
// previous normalization and derived rows instead of duplicating them.
func (s *Store) SaveNormalizedEvent(rawEventID int64, ne model.NormalizedEvent, publishedAt string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is safe to call even after commit - it's a no-op
	defer tx.Rollback()

	var eventID int64
	err = tx.QueryRow(`
		INSERT INTO normalized_events (raw_event_id, title, summary, signal_classification, confidence_score, source_tier, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(raw_event_id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			signal_classification = excluded.signal_classification,
			confidence_score = excluded.confidence_score,
			source_tier = excluded.source_tier,
			published_at = excluded.published_at
		RETURNING id
	`, rawEventID, ne.Title, ne.Summary, string(ne.Classification), ne.Confidence,
		ne.SourceTier, publishedAt).Scan(&eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert normalized event: %w", err)
	}

	// Replace derived rows wholesale; partial updates are never needed.
	for _, table := range []string{"disease_mentions", "location_mentions", "outbreak_assessments"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE event_id = ?", eventID); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, disease := range ne.Diseases {
		if _, err := tx.Exec(`
			INSERT INTO disease_mentions (event_id, disease_name, is_primary)
			VALUES (?, ?, 1)
		`, eventID, disease); err != nil {
			return 0, fmt.Errorf("failed to insert disease mention: %w", err)
		}
	}

	for _, country := range ne.Locations {
		if _, err := tx.Exec(`
			INSERT INTO location_mentions (event_id, country)
			VALUES (?, ?)
		`, eventID, country); err != nil {
			return 0, fmt.Errorf("failed to insert location mention: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO outbreak_assessments (event_id, assessment_text)
		VALUES (?, ?)
	`, eventID, ne.AssessmentText); err != nil {
		return 0, fmt.Errorf("failed to insert assessment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return eventID, nil
}

// EventRecord is the slice of a normalized event the anomaly detector needs.
type EventRecord struct {
	ID             int64
	PublishedAt    string
	Classification string
}

// EventsSince retrieves normalized events published after the given time.
func (s *Store) EventsSince(since time.Time) ([]EventRecord, error) {
	// published_at is RFC 3339 UTC text, so lexicographic comparison is
	// chronological.
	rows, err := s.db.Query(`
		SELECT id, published_at, signal_classification
		FROM normalized_events
		WHERE published_at > ?
		ORDER BY published_at DESC
	`, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var ev EventRecord
		if err := rows.Scan(&ev.ID, &ev.PublishedAt, &ev.Classification); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return events, nil
}

// InsertAlert records an alert raised by the anomaly detector.
func (s *Store) InsertAlert(alertType, severity, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO alerts (type, severity, message, created_at, is_read)
		VALUES (?, ?, ?, ?, 0)
	`, alertType, severity, message, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// DiseaseRecord is one row of the disease reference catalog.
type DiseaseRecord struct {
	Name                 string
	PathogenAgent        string
	Symptoms             string
	DiagnosticProtocols  string
	Treatment            string
	VaccineStatus        string
	SeverityScore        float64
	ClassificationReason string
}

// UpsertDiseases saves a batch of disease catalog records in a single
// transaction, keyed by unique name. Individual failures are logged but do
// not stop the batch.
func (s *Store) UpsertDiseases(records []DiseaseRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO diseases (name, pathogen_agent, symptoms, diagnostic_protocols, treatment, vaccine_status, severity_score, classification_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			pathogen_agent = excluded.pathogen_agent,
			symptoms = excluded.symptoms,
			diagnostic_protocols = excluded.diagnostic_protocols,
			treatment = excluded.treatment,
			vaccine_status = excluded.vaccine_status,
			severity_score = excluded.severity_score,
			classification_reason = excluded.classification_reason
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var saved int
	for _, r := range records {
		if _, err := stmt.Exec(r.Name, r.PathogenAgent, r.Symptoms, r.DiagnosticProtocols,
			r.Treatment, r.VaccineStatus, r.SeverityScore, r.ClassificationReason); err != nil {
			logging.Warn("failed to save disease record", "name", r.Name, "error", err)
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return saved, nil
}

// Counts returns per-relation row counts for the verify command.
func (s *Store) Counts() (map[string]int, error) {
	tables := []string{"sources", "raw_events", "normalized_events", "disease_mentions",
		"location_mentions", "outbreak_assessments", "alerts", "diseases"}
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for advanced queries.
//
// Use with caution - prefer using Store methods for common operations.
func (s *Store) DB() *sql.DB {
	return s.db
}
