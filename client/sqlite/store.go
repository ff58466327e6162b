package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sporadisk/weekclock/timesheet"
)

var ErrNotFound = errors.New("no worked time recorded for that day")

const schema = `
CREATE TABLE IF NOT EXISTS work_log (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	day        TEXT    NOT NULL,
	minutes    INTEGER NOT NULL CHECK (minutes >= 0),
	note       TEXT    NOT NULL DEFAULT '',
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_work_log_day ON work_log(day);
`

// Store keeps manually entered worked time. A day may have several rows;
// they are added up.
type Store struct {
	path string
	db   *sql.DB
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{path: path, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add records more worked time for day.
func (s *Store) Add(ctx context.Context, day time.Time, worked time.Duration, note string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO work_log (day, minutes, note, created_at) VALUES (?, ?, ?, ?)`,
		timesheet.Day(day).Format(timesheet.DateLayout), int(worked/time.Minute), note, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting work log: %w", err)
	}
	return nil
}

// Set replaces everything recorded for day with a single entry.
func (s *Store) Set(ctx context.Context, day time.Time, worked time.Duration, note string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := timesheet.Day(day).Format(timesheet.DateLayout)
	if _, err := tx.ExecContext(ctx, `DELETE FROM work_log WHERE day = ?`, key); err != nil {
		return fmt.Errorf("clearing work log: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO work_log (day, minutes, note, created_at) VALUES (?, ?, ?, ?)`,
		key, int(worked/time.Minute), note, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting work log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Delete removes everything recorded for day.
func (s *Store) Delete(ctx context.Context, day time.Time) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM work_log WHERE day = ?`,
		timesheet.Day(day).Format(timesheet.DateLayout))
	if err != nil {
		return fmt.Errorf("deleting work log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the worked time recorded for day.
func (s *Store) Get(ctx context.Context, day time.Time) (time.Duration, error) {
	var minutes sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT SUM(minutes) FROM work_log WHERE day = ?`,
		timesheet.Day(day).Format(timesheet.DateLayout)).Scan(&minutes)
	if err != nil {
		return 0, fmt.Errorf("querying work log: %w", err)
	}
	if !minutes.Valid {
		return 0, ErrNotFound
	}
	return time.Duration(minutes.Int64) * time.Minute, nil
}

// WorkedTime sums the recorded time per weekday of week.
func (s *Store) WorkedTime(ctx context.Context, week timesheet.Week) ([]timesheet.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, SUM(minutes) FROM work_log WHERE day BETWEEN ? AND ? GROUP BY day ORDER BY day`,
		week.Monday.Format(timesheet.DateLayout), week.Friday().Format(timesheet.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("querying work log: %w", err)
	}
	defer rows.Close()

	records := []timesheet.Record{}
	for rows.Next() {
		var day string
		var minutes int64
		if err := rows.Scan(&day, &minutes); err != nil {
			return nil, fmt.Errorf("scanning work log: %w", err)
		}

		date, err := timesheet.ParseDay(day)
		if err != nil {
			return nil, &timesheet.DataIntegrityError{Reason: fmt.Sprintf("malformed day %q in %s", day, s.path), Err: err}
		}
		records = append(records, timesheet.Record{
			Date:     date,
			WorkTime: time.Duration(minutes) * time.Minute,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work log: %w", err)
	}

	return records, nil
}
