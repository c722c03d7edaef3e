// Package agentjournal is the agent's optional SQLite-backed record of
// goal traffic, tick boundaries, and reactor failures. A nil *SQLiteJournal is a
// complete, valid no-op configuration: every method tolerates a nil
// receiver, so an agent assembled without --db simply never touches disk.
//
// SQLite in WAL mode is used the same way the teacher used it for its
// message log: a single append-mostly table per concern, opened with a
// busy_timeout pragma so short contention resolves without an
// application-level retry, and retryOnContention as a second line of
// defense for the transient errors busy_timeout doesn't cover.
package agentjournal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/automenta/trex-autonomy/pkg/goal"
	"github.com/automenta/trex-autonomy/pkg/tick"
)

// Journal is the interface the agent depends on, so tests can inject an
// in-memory fake instead of touching disk.
type Journal interface {
	Close() error
	RecordRequest(t tick.Tick, g goal.Goal) error
	RecordRecall(t tick.Tick, id goal.ID, timeline string) error
	RecordTickBoundary(t tick.Tick, at time.Time) error
	RecordFailure(t tick.Tick, reactorName, phase, detail string) error
}

// SQLiteJournal is the concrete, on-disk Journal implementation. The zero
// value is not usable; construct with Open. A nil *SQLiteJournal satisfies
// Journal as a no-op, which is how the agent represents "no --db given".
type SQLiteJournal struct {
	db *sql.DB
}

var _ Journal = (*SQLiteJournal)(nil)

// Open creates (or reuses) the SQLite database at path and ensures its
// schema exists.
func Open(path string) (*SQLiteJournal, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("agentjournal: open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("agentjournal: migrate: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS goal_requests (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		tick       INTEGER NOT NULL,
		goal_id    TEXT NOT NULL,
		timeline   TEXT NOT NULL,
		predicate  TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goal_requests_tick ON goal_requests(tick);

	CREATE TABLE IF NOT EXISTS goal_recalls (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		tick       INTEGER NOT NULL,
		goal_id    TEXT NOT NULL,
		timeline   TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goal_recalls_tick ON goal_recalls(tick);

	CREATE TABLE IF NOT EXISTS tick_boundaries (
		tick     INTEGER PRIMARY KEY,
		at       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reactor_failures (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		tick       INTEGER NOT NULL,
		reactor    TEXT NOT NULL,
		phase      TEXT NOT NULL,
		detail     TEXT,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reactor_failures_tick ON reactor_failures(tick);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the underlying database connection. A nil journal closes
// cleanly.
func (j *SQLiteJournal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

func (j *SQLiteJournal) RecordRequest(t tick.Tick, g goal.Goal) error {
	if j == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := j.db.Exec(
			`INSERT INTO goal_requests (tick, goal_id, timeline, predicate, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			int64(t), g.ID.String(), g.Timeline, g.Predicate, now,
		)
		return err
	})
}

func (j *SQLiteJournal) RecordRecall(t tick.Tick, id goal.ID, timeline string) error {
	if j == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := j.db.Exec(
			`INSERT INTO goal_recalls (tick, goal_id, timeline, recorded_at) VALUES (?, ?, ?, ?)`,
			int64(t), id.String(), timeline, now,
		)
		return err
	})
}

func (j *SQLiteJournal) RecordTickBoundary(t tick.Tick, at time.Time) error {
	if j == nil {
		return nil
	}
	return retryOnContention(func() error {
		_, err := j.db.Exec(
			`INSERT INTO tick_boundaries (tick, at) VALUES (?, ?) ON CONFLICT(tick) DO UPDATE SET at = excluded.at`,
			int64(t), at.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

func (j *SQLiteJournal) RecordFailure(t tick.Tick, reactorName, phase, detail string) error {
	if j == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := j.db.Exec(
			`INSERT INTO reactor_failures (tick, reactor, phase, detail, recorded_at) VALUES (?, ?, ?, ?, ?)`,
			int64(t), reactorName, phase, detail, now,
		)
		return err
	})
}

// FailureRecord is one row read back by RecentFailures.
type FailureRecord struct {
	Tick       tick.Tick
	Reactor    string
	Phase      string
	Detail     string
	RecordedAt time.Time
}

// LastTickBoundary reports the most recently recorded tick boundary, for
// the CLI's "status" command. ok is false if the journal has never
// recorded one (including when j is nil).
func (j *SQLiteJournal) LastTickBoundary() (t tick.Tick, at time.Time, ok bool, err error) {
	if j == nil {
		return 0, time.Time{}, false, nil
	}
	var tickVal int64
	var atRaw string
	row := j.db.QueryRow(`SELECT tick, at FROM tick_boundaries ORDER BY tick DESC LIMIT 1`)
	if err := row.Scan(&tickVal, &atRaw); err != nil {
		if err == sql.ErrNoRows {
			return 0, time.Time{}, false, nil
		}
		return 0, time.Time{}, false, fmt.Errorf("agentjournal: last tick boundary: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, atRaw)
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("agentjournal: parse tick boundary timestamp: %w", err)
	}
	return tick.Tick(tickVal), parsed, true, nil
}

// RecentFailures returns up to limit of the most recently recorded reactor
// failures, newest first.
func (j *SQLiteJournal) RecentFailures(limit int) ([]FailureRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.Query(
		`SELECT tick, reactor, phase, detail, recorded_at FROM reactor_failures ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("agentjournal: recent failures: %w", err)
	}
	defer rows.Close()

	var out []FailureRecord
	for rows.Next() {
		var rec FailureRecord
		var tickVal int64
		var atRaw string
		if err := rows.Scan(&tickVal, &rec.Reactor, &rec.Phase, &rec.Detail, &atRaw); err != nil {
			return nil, fmt.Errorf("agentjournal: scan failure row: %w", err)
		}
		rec.Tick = tick.Tick(tickVal)
		rec.RecordedAt, err = time.Parse(time.RFC3339Nano, atRaw)
		if err != nil {
			return nil, fmt.Errorf("agentjournal: parse failure timestamp: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
