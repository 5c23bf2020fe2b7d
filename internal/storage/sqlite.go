// Package storage provides SQLite-based persistence for run telemetry: one row
// per round played, sampled frames of body state, and the distance scan taken
// at each sampled frame.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for telemetry.
type Store struct {
	db *sql.DB
}

// Run is one recorded round.
type Run struct {
	ID         int64
	Seed       int64
	Source     string // Who played: player, autopilot or simulate
	Clip       string // Scanner clip mode in effect
	Score      int
	Ticks      int
	Cause      string // What ended the round; empty while unfinished
	Finished   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Frame is the body state at one sampled tick.
type Frame struct {
	ID        int64
	RunID     int64
	Tick      int
	BodyY     float64
	Velocity  float64
	Jumped    bool
	Obstacles int // Live obstacle count
	Scan      []ScanSample
}

// ScanSample is one ray reading attached to a frame.
type ScanSample struct {
	Angle    int
	Distance float64
	HitX     float64
	HitY     float64
	Kind     string
}

// Stats contains aggregated statistics over finished runs.
type Stats struct {
	Runs       int
	BestScore  int
	AvgScore   float64
	TotalTicks int64
	LastPlayed time.Time
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

	// Open database; foreign keys are enabled per connection through the DSN
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

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
			seed INTEGER NOT NULL,
			source TEXT NOT NULL,
			clip TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			cause TEXT NOT NULL DEFAULT '',
			finished INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);

		CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			tick INTEGER NOT NULL,
			body_y REAL NOT NULL,
			velocity REAL NOT NULL,
			jumped INTEGER NOT NULL DEFAULT 0,
			obstacles INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, tick);

		CREATE TABLE IF NOT EXISTS scans (
			frame_id INTEGER NOT NULL REFERENCES frames(id) ON DELETE CASCADE,
			angle INTEGER NOT NULL,
			distance REAL NOT NULL,
			hit_x REAL NOT NULL,
			hit_y REAL NOT NULL,
			kind TEXT NOT NULL,
			PRIMARY KEY (frame_id, angle)
		);
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

// BeginRun records the start of a round.
// Returns the ID of the inserted record.
func (s *Store) BeginRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (seed, source, clip) VALUES (?, ?, ?)",
		r.Seed, r.Source, r.Clip,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// FinishRun stores the outcome of a round.
func (s *Store) FinishRun(id int64, score, ticks int, cause string) error {
	res, err := s.db.Exec(
		`UPDATE runs
		 SET score = ?, ticks = ?, cause = ?, finished = 1, finished_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		score, ticks, cause, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: run %d not found", id)
	}
	return nil
}

// SaveFrames stores frames and their scan samples for a run in one
// transaction. The frames' ID and RunID fields are filled in.
func (s *Store) SaveFrames(runID int64, frames []Frame) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	frameStmt, err := tx.Prepare(
		`INSERT INTO frames (run_id, tick, body_y, velocity, jumped, obstacles)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare frame insert: %w", err)
	}
	defer frameStmt.Close()

	scanStmt, err := tx.Prepare(
		`INSERT INTO scans (frame_id, angle, distance, hit_x, hit_y, kind)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare scan insert: %w", err)
	}
	defer scanStmt.Close()

	for i := range frames {
		f := &frames[i]
		res, err := frameStmt.Exec(runID, f.Tick, f.BodyY, f.Velocity, f.Jumped, f.Obstacles)
		if err != nil {
			return fmt.Errorf("storage: cannot save frame at tick %d: %w", f.Tick, err)
		}
		f.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("storage: cannot get inserted ID: %w", err)
		}
		f.RunID = runID

		for _, sm := range f.Scan {
			if _, err := scanStmt.Exec(f.ID, sm.Angle, sm.Distance, sm.HitX, sm.HitY, sm.Kind); err != nil {
				return fmt.Errorf("storage: cannot save scan at tick %d angle %d: %w", f.Tick, sm.Angle, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frames: %w", err)
	}
	return nil
}

const runColumns = `id, seed, source, clip, score, ticks, cause, finished, started_at, finished_at`

// scanRun reads one runs row selected with runColumns.
func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var startedAt, finishedAt any
	err := row.Scan(&r.ID, &r.Seed, &r.Source, &r.Clip, &r.Score, &r.Ticks,
		&r.Cause, &r.Finished, &startedAt, &finishedAt)
	if err != nil {
		return r, err
	}
	r.StartedAt = parseTime(startedAt)
	r.FinishedAt = parseTime(finishedAt)
	return r, nil
}

// RunByID retrieves a run. Returns nil if it does not exist.
func (s *Store) RunByID(id int64) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(
		"SELECT "+runColumns+" FROM runs WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recently started runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Frames retrieves the frames of a run in tick order, with their scans.
func (s *Store) Frames(runID int64) ([]Frame, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, tick, body_y, velocity, jumped, obstacles
		 FROM frames
		 WHERE run_id = ?
		 ORDER BY tick, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var frames []Frame
	index := make(map[int64]int)
	for rows.Next() {
		var f Frame
		if err := rows.Scan(&f.ID, &f.RunID, &f.Tick, &f.BodyY, &f.Velocity, &f.Jumped, &f.Obstacles); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		index[f.ID] = len(frames)
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	if len(frames) == 0 {
		return nil, nil
	}

	scanRows, err := s.db.Query(
		`SELECT s.frame_id, s.angle, s.distance, s.hit_x, s.hit_y, s.kind
		 FROM scans s JOIN frames f ON f.id = s.frame_id
		 WHERE f.run_id = ?
		 ORDER BY s.frame_id, s.angle`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scans: %w", err)
	}
	defer scanRows.Close()

	for scanRows.Next() {
		var frameID int64
		var sm ScanSample
		if err := scanRows.Scan(&frameID, &sm.Angle, &sm.Distance, &sm.HitX, &sm.HitY, &sm.Kind); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if i, ok := index[frameID]; ok {
			frames[i].Scan = append(frames[i].Scan, sm)
		}
	}
	if err := scanRows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return frames, nil
}

// Stats retrieves aggregated statistics over finished runs.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(ticks), 0)
		 FROM runs WHERE finished = 1`,
	).Scan(&stats.Runs, &stats.BestScore, &stats.AvgScore, &stats.TotalTicks)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT started_at FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearRuns deletes every run with its frames and scans.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM runs")
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime converts a DATETIME column value; handles both time.Time and string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
