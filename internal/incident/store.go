package incident

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists incident records in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the incident database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory incident store (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    fields TEXT NOT NULL DEFAULT '{}',
    root_cause_whys TEXT,
    reported_by TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_incidents_type ON incidents(type);
CREATE INDEX IF NOT EXISTS idx_incidents_created ON incidents(created_at);
`

// Save inserts a record, assigning an id and timestamp if unset, and
// returns the stored record.
func (s *Store) Save(ctx context.Context, rec Record) (*Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	fields, err := json.Marshal(orEmpty(rec.Fields))
	if err != nil {
		return nil, fmt.Errorf("marshalling fields: %w", err)
	}
	var whys []byte
	if rec.RootCauseWhys != nil {
		if whys, err = json.Marshal(rec.RootCauseWhys); err != nil {
			return nil, fmt.Errorf("marshalling root cause chain: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO incidents (id, type, description, fields, root_cause_whys, reported_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Type, rec.Description, string(fields), nullable(whys), rec.ReportedBy, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting incident: %w", err)
	}
	return &rec, nil
}

// Get retrieves a record by id. Returns nil when not found.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, description, fields, root_cause_whys, reported_by, created_at
		 FROM incidents WHERE id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, description, fields, root_cause_whys, reported_by, created_at
		 FROM incidents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying incidents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// AttachRootCause stores a completed five-whys chain on an existing
// incident. Returns the enriched record, or nil when the id is unknown.
// This is the only mutation the intake engine performs on persisted
// records: it enriches, it never creates ids of its own.
func (s *Store) AttachRootCause(ctx context.Context, id string, whys []string) (*Record, error) {
	data, err := json.Marshal(whys)
	if err != nil {
		return nil, fmt.Errorf("marshalling root cause chain: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE incidents SET root_cause_whys = ? WHERE id = ?`, string(data), id,
	)
	if err != nil {
		return nil, fmt.Errorf("attaching root cause: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Count returns the number of stored incidents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var fields string
	var whys sql.NullString
	if err := row.Scan(&rec.ID, &rec.Type, &rec.Description, &fields, &whys, &rec.ReportedBy, &rec.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning incident: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling fields: %w", err)
	}
	if whys.Valid {
		if err := json.Unmarshal([]byte(whys.String), &rec.RootCauseWhys); err != nil {
			return nil, fmt.Errorf("unmarshalling root cause chain: %w", err)
		}
	}
	return &rec, nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nullable(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}
