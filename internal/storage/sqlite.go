// Package storage provides SQLite-based persistence for recorded runs and
// their verification journal. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is a persisted run: the claimed outcome plus the full tape bytes
// so a run can always be re-verified later.
type RunRecord struct {
	ID         int64
	Claimant   string
	Seed       uint32
	FrameCount uint32
	Score      uint32
	RngState   uint32
	Checksum   uint32
	Tape       []byte
	CreatedAt  time.Time
}

// VerificationRecord is one journal entry: what a tape claimed, what the
// replay computed, and the verdict.
type VerificationRecord struct {
	ID          int64
	Checksum    uint32
	Seed        uint32
	FrameCount  uint32
	Score       uint32
	RngState    uint32
	RulesDigest uint32
	Verified    bool
	Reason      string // Empty when verified
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			claimant TEXT NOT NULL,
			seed INTEGER NOT NULL,
			frame_count INTEGER NOT NULL,
			score INTEGER NOT NULL,
			rng_state INTEGER NOT NULL,
			checksum INTEGER NOT NULL UNIQUE,
			tape BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_claimant ON runs(claimant);

		CREATE TABLE IF NOT EXISTS verifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			checksum INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			frame_count INTEGER NOT NULL,
			score INTEGER NOT NULL,
			rng_state INTEGER NOT NULL,
			rules_digest INTEGER NOT NULL,
			verified INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_verifications_checksum ON verifications(checksum);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run. The checksum is unique: re-submitting the same tape
// updates nothing and returns the existing row's ID.
func (s *Store) SaveRun(run RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (claimant, seed, frame_count, score, rng_state, checksum, tape)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(checksum) DO NOTHING`,
		run.Claimant, run.Seed, run.FrameCount, run.Score, run.RngState, run.Checksum, run.Tape,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot check insert: %w", err)
	}
	if affected == 0 {
		var id int64
		err := s.db.QueryRow("SELECT id FROM runs WHERE checksum = ?", run.Checksum).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot find existing run: %w", err)
		}
		return id, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N runs ordered by score descending. The tape
// bytes are not loaded; use RunByChecksum for a full record.
func (s *Store) TopRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, claimant, seed, frame_count, score, rng_state, checksum, created_at
		 FROM runs
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunRecord
	for rows.Next() {
		var e RunRecord
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Claimant, &e.Seed, &e.FrameCount, &e.Score, &e.RngState, &e.Checksum, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RunByChecksum retrieves a full run record, including the tape bytes.
// Returns nil if no run with that checksum exists.
func (s *Store) RunByChecksum(checksum uint32) (*RunRecord, error) {
	var e RunRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, claimant, seed, frame_count, score, rng_state, checksum, tape, created_at
		 FROM runs
		 WHERE checksum = ?`,
		checksum,
	).Scan(&e.ID, &e.Claimant, &e.Seed, &e.FrameCount, &e.Score, &e.RngState, &e.Checksum, &e.Tape, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	e.CreatedAt = parseCreatedAt(createdAt)
	return &e, nil
}

// HighScore returns the highest stored score. Returns 0 if no runs exist.
func (s *Store) HighScore() (uint32, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return uint32(score.Int64), nil
}

// ClearRuns deletes all stored runs.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM runs")
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveVerification records a verification verdict.
// Returns the ID of the inserted record.
func (s *Store) SaveVerification(v VerificationRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO verifications
		 (checksum, seed, frame_count, score, rng_state, rules_digest, verified, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Checksum, v.Seed, v.FrameCount, v.Score, v.RngState, v.RulesDigest, v.Verified, v.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save verification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentVerifications retrieves the most recent verification journal entries.
func (s *Store) RecentVerifications(limit int) ([]VerificationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, checksum, seed, frame_count, score, rng_state, rules_digest, verified, reason, created_at
		 FROM verifications
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query verifications: %w", err)
	}
	defer rows.Close()

	var entries []VerificationRecord
	for rows.Next() {
		var e VerificationRecord
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Checksum, &e.Seed, &e.FrameCount, &e.Score, &e.RngState,
			&e.RulesDigest, &e.Verified, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseCreatedAt handles both time.Time and string datetime representations
// coming back from the driver.
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
