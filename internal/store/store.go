// Package store keeps benchmark measurements in sqlite, keyed by test case and task id, and
// turns one task's rows back into a timestamped metrics frame.
package store

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mwiater/metricview/internal/dataset"
)

var (
	ErrInvalidTestcase = errors.New("invalid test case name")
	ErrInvalidTaskID   = errors.New("invalid task id")
	ErrNotFound        = errors.New("task ID or test case not found")
)

// timeLayout is fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var testcasePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Row is one measurement point: a time and a value per field key.
type Row struct {
	Time   time.Time                `json:"time"`
	Fields map[string]dataset.Value `json:"fields"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS measurements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			testcase TEXT NOT NULL,
			task_id TEXT NOT NULL,
			time_utc TEXT NOT NULL,
			fields_json TEXT NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_measurements_task ON measurements(testcase, task_id, time_utc);`,
		`CREATE TABLE IF NOT EXISTS field_keys (
			testcase TEXT NOT NULL,
			field_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (testcase, field_key)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// ValidateTestcase checks a test case name.
func ValidateTestcase(name string) error {
	if !testcasePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTestcase, name)
	}
	return nil
}

// ValidateTaskID checks that id looks like a UUID and returns its canonical form.
func ValidateTaskID(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaskID, id)
	}
	return u.String(), nil
}

// Record stores rows for one task in a single transaction.
func (s *Store) Record(ctx context.Context, testcase, taskID string, rows []Row) error {
	if err := ValidateTestcase(testcase); err != nil {
		return err
	}
	task, err := ValidateTaskID(taskID)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		fields, err := json.Marshal(row.Fields)
		if err != nil {
			return fmt.Errorf("encode fields: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO measurements (testcase, task_id, time_utc, fields_json) VALUES (?, ?, ?, ?)`,
			testcase, task, row.Time.UTC().Format(timeLayout), string(fields),
		); err != nil {
			return fmt.Errorf("insert measurement: %w", err)
		}
		for _, key := range sortedKeys(row.Fields) {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO field_keys (testcase, field_key, position)
				 VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM field_keys WHERE testcase = ?))`,
				testcase, key, testcase,
			); err != nil {
				return fmt.Errorf("insert field key: %w", err)
			}
		}
	}
	return tx.Commit()
}

// FieldKeys lists the field keys ever recorded for testcase, in first-seen order.
func (s *Store) FieldKeys(ctx context.Context, testcase string) ([]string, error) {
	if err := ValidateTestcase(testcase); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT field_key FROM field_keys WHERE testcase = ? ORDER BY position`, testcase)
	if err != nil {
		return nil, fmt.Errorf("query field keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan field key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Load returns the measurements of one task as a frame with one series per field key. A
// row missing a field contributes an absent value.
func (s *Store) Load(ctx context.Context, testcase, taskID string) (dataset.Frame, error) {
	keys, err := s.FieldKeys(ctx, testcase)
	if err != nil {
		return dataset.Frame{}, err
	}
	task, err := ValidateTaskID(taskID)
	if err != nil {
		return dataset.Frame{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT time_utc, fields_json FROM measurements WHERE testcase = ? AND task_id = ? ORDER BY time_utc, id`,
		testcase, task)
	if err != nil {
		return dataset.Frame{}, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	frame := dataset.Frame{Timestamps: dataset.Timestamps{}, Metrics: dataset.Payload{}, Keys: keys}
	for _, k := range keys {
		frame.Metrics[k] = dataset.Series{}
	}
	for rows.Next() {
		var stamp, raw string
		if err := rows.Scan(&stamp, &raw); err != nil {
			return dataset.Frame{}, fmt.Errorf("scan measurement: %w", err)
		}
		label, err := dataset.FormatTimestamp(stamp)
		if err != nil {
			return dataset.Frame{}, err
		}
		var fields map[string]dataset.Value
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return dataset.Frame{}, fmt.Errorf("decode fields: %w", err)
		}
		frame.Timestamps = append(frame.Timestamps, label)
		for _, k := range keys {
			frame.Metrics[k] = append(frame.Metrics[k], fields[k])
		}
	}
	if err := rows.Err(); err != nil {
		return dataset.Frame{}, err
	}
	if len(keys) == 0 || len(frame.Timestamps) == 0 {
		return dataset.Frame{}, ErrNotFound
	}
	return frame, nil
}

// DecodeRows reads newline-delimited JSON rows. Blank lines are skipped.
func DecodeRows(r io.Reader) ([]Row, error) {
	var out []Row
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var row Row
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("decode row %d: %w", line, err)
		}
		if row.Time.IsZero() {
			return nil, fmt.Errorf("decode row %d: missing time", line)
		}
		out = append(out, row)
	}
	return out, sc.Err()
}

func sortedKeys(m map[string]dataset.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
