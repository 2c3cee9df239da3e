// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists PaperRecords in SQLite with a full-text index over
// titles and summaries, and exports them as YAML or JSON.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

const dbFile = "records.db"

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown record id.
var ErrNotFound = errors.New("record not found")

// Entry is a stored record with its archive metadata.
type Entry struct {
	ID        string            `json:"id" yaml:"id"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	Record    types.PaperRecord `json:"record" yaml:"record"`
}

// Store manages the record archive database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	now        func() time.Time

	// fts is false when the SQLite build lacks FTS5 (built without the
	// sqlite_fts5 tag); List then falls back to LIKE matching.
	fts bool
}

// NewStore opens or creates the archive at cfg.Dir/records.db and creates
// the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			title TEXT,
			best_template TEXT,
			failed INTEGER NOT NULL DEFAULT 0,
			focused_summary TEXT,
			holistic_summary TEXT,
			body TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_template ON records(best_template)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='records_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		_, err := s.db.Exec(`CREATE VIRTUAL TABLE records_fts USING fts5(
			title, focused_summary, holistic_summary,
			content=records, content_rowid=rowid)`)
		if err != nil {
			if strings.Contains(err.Error(), "no such module") {
				return nil
			}
			return fmt.Errorf("creating FTS table: %w", err)
		}
		triggers := []string{
			`CREATE TRIGGER records_ai AFTER INSERT ON records BEGIN
				INSERT INTO records_fts(rowid, title, focused_summary, holistic_summary)
				VALUES (new.rowid, new.title, new.focused_summary, new.holistic_summary);
			END`,
			`CREATE TRIGGER records_ad AFTER DELETE ON records BEGIN
				INSERT INTO records_fts(records_fts, rowid, title, focused_summary, holistic_summary)
				VALUES ('delete', old.rowid, old.title, old.focused_summary, old.holistic_summary);
			END`,
		}
		for _, stmt := range triggers {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	s.fts = true
	return nil
}

// Save stores rec under a fresh id and returns the id.
func (s *Store) Save(ctx context.Context, rec types.PaperRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	id := uuid.NewString()
	failed := 0
	if rec.Degraded() {
		failed = 1
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, created_at, title, best_template, failed, focused_summary, holistic_summary, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout), rec.Title, rec.BestTemplate, failed,
		rec.FocusedSummary, rec.HolisticSummary, string(body),
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return id, nil
}

// Get returns the entry with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, body FROM records WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		createdAt string
		body      string
	)
	if err := row.Scan(&e.ID, &createdAt, &body); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing created_at for %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	if err := json.Unmarshal([]byte(body), &e.Record); err != nil {
		return Entry{}, fmt.Errorf("decoding record %s: %w", e.ID, err)
	}
	return e, nil
}
