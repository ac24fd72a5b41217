// Package journal persists individuals, their event histories, and
// periodic state checkpoints in SQLite, and reconstructs the state at
// any past instant by replaying events from the nearest checkpoint.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/lifecourse/go-core/internal/evolve"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/interpret"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/spec"
	"github.com/danielpatrickdp/lifecourse/go-core/internal/state"
)

// timeLayout pads fractional seconds to fixed width so the TEXT
// columns compare and ORDER BY in chronological order. RFC3339Nano
// trims trailing zeros, which puts whole-second stamps after
// sub-second ones lexically. All stored instants are UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS individuals (
	individual_id    TEXT PRIMARY KEY,
	species          TEXT NOT NULL,
	emotionality     REAL NOT NULL,
	honesty_humility REAL NOT NULL,
	created_at       TEXT NOT NULL,
	initial_state    BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	event_id      TEXT PRIMARY KEY,
	individual_id TEXT NOT NULL,
	kind          TEXT NOT NULL,
	source        TEXT,
	severity      REAL NOT NULL,
	occurred_at   TEXT NOT NULL,
	permanent     BLOB NOT NULL,
	acute         BLOB NOT NULL,
	chronic       BLOB NOT NULL,
	salience      REAL NOT NULL,
	cause         TEXT NOT NULL,
	agent         TEXT,
	stability     TEXT NOT NULL,
	FOREIGN KEY (individual_id) REFERENCES individuals(individual_id)
);

CREATE INDEX IF NOT EXISTS idx_events_individual_time
	ON events(individual_id, occurred_at);

CREATE TABLE IF NOT EXISTS checkpoints (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	individual_id TEXT NOT NULL,
	taken_at      TEXT NOT NULL,
	state         BLOB NOT NULL,
	FOREIGN KEY (individual_id) REFERENCES individuals(individual_id)
);

CREATE INDEX IF NOT EXISTS idx_checkpoints_individual_time
	ON checkpoints(individual_id, taken_at);
`

// #endregion schema

// #region types
// Individual is one tracked entity: identity, the trait axes the
// interpretation layer needs, and the state it started from.
type Individual struct {
	ID          string
	Species     interpret.Species
	Personality interpret.Personality
	CreatedAt   time.Time
	Initial     state.State
}

// Recorded is one persisted event: the applied deltas plus the
// interpretation results worth keeping.
type Recorded struct {
	EventID     string
	Kind        string
	Source      string
	Severity    float32
	OccurredAt  time.Time
	Deltas      spec.Deltas
	Salience    float32
	Attribution interpret.Attribution
}

// Journal manages the SQLite history database.
type Journal struct {
	db *sql.DB
}

// #endregion types

// #region open
// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// DB returns the underlying *sql.DB for use by tooling.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// #endregion open

// #region individuals
// CreateIndividual persists a new individual. A missing id is
// generated; the returned value carries it.
func (j *Journal) CreateIndividual(ind Individual) (Individual, error) {
	if ind.ID == "" {
		ind.ID = fmt.Sprintf("ind_%s", uuid.NewString())
	}
	if ind.CreatedAt.IsZero() {
		ind.CreatedAt = time.Now().UTC()
	}
	if ind.Species == "" {
		ind.Species = interpret.Human
	}

	_, err := j.db.Exec(
		`INSERT INTO individuals (individual_id, species, emotionality, honesty_humility, created_at, initial_state)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ind.ID, string(ind.Species), ind.Personality.Emotionality, ind.Personality.HonestyHumility,
		ind.CreatedAt.Format(timeLayout), encodeState(ind.Initial),
	)
	if err != nil {
		return Individual{}, fmt.Errorf("insert individual: %w", err)
	}
	return ind, nil
}

// GetIndividual retrieves an individual by id.
func (j *Journal) GetIndividual(id string) (Individual, error) {
	var ind Individual
	var species, createdStr string
	var blob []byte

	err := j.db.QueryRow(
		`SELECT individual_id, species, emotionality, honesty_humility, created_at, initial_state
		 FROM individuals WHERE individual_id = ?`, id,
	).Scan(&ind.ID, &species, &ind.Personality.Emotionality, &ind.Personality.HonestyHumility,
		&createdStr, &blob)
	if err != nil {
		return Individual{}, fmt.Errorf("get individual %s: %w", id, err)
	}

	ind.Species = interpret.Species(species)
	ind.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	ind.Initial = decodeState(blob)
	return ind, nil
}

// #endregion individuals

// #region events
// AppendEvent persists one interpreted event for an individual.
func (j *Journal) AppendEvent(individualID string, it interpret.Interpreted) error {
	var agentPtr interface{}
	if it.Attribution.Agent != "" {
		agentPtr = it.Attribution.Agent
	}
	var sourcePtr interface{}
	if it.Event.Source != "" {
		sourcePtr = it.Event.Source
	}

	_, err := j.db.Exec(
		`INSERT INTO events (event_id, individual_id, kind, source, severity, occurred_at,
		                     permanent, acute, chronic, salience, cause, agent, stability)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Event.ID, individualID, it.Event.Kind, sourcePtr, it.Event.Severity,
		it.Event.Timestamp.UTC().Format(timeLayout),
		encodeVector(it.Deltas.Permanent), encodeVector(it.Deltas.Acute), encodeVector(it.Deltas.Chronic),
		it.Salience, string(it.Attribution.Cause), agentPtr, string(it.Attribution.Stability),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", it.Event.ID, err)
	}
	return nil
}

// EventsBetween returns an individual's events with from < occurred_at
// <= to, in timestamp order.
func (j *Journal) EventsBetween(individualID string, from, to time.Time) ([]Recorded, error) {
	rows, err := j.db.Query(
		`SELECT event_id, kind, source, severity, occurred_at,
		        permanent, acute, chronic, salience, cause, agent, stability
		 FROM events
		 WHERE individual_id = ? AND occurred_at > ? AND occurred_at <= ?
		 ORDER BY occurred_at ASC`,
		individualID, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []Recorded
	for rows.Next() {
		var rec Recorded
		var source, agent sql.NullString
		var occurredStr, cause, stability string
		var perm, acute, chronic []byte

		if err := rows.Scan(&rec.EventID, &rec.Kind, &source, &rec.Severity, &occurredStr,
			&perm, &acute, &chronic, &rec.Salience, &cause, &agent, &stability); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if source.Valid {
			rec.Source = source.String
		}
		rec.OccurredAt, _ = time.Parse(timeLayout, occurredStr)
		rec.Deltas.Permanent = decodeVector(perm)
		rec.Deltas.Acute = decodeVector(acute)
		rec.Deltas.Chronic = decodeVector(chronic)
		rec.Attribution.Cause = interpret.Cause(cause)
		rec.Attribution.Stability = interpret.Stability(stability)
		if agent.Valid {
			rec.Attribution.Agent = agent.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion events

// #region checkpoints
// Checkpoint records a materialised state so later queries replay fewer
// events.
func (j *Journal) Checkpoint(individualID string, at time.Time, s state.State) error {
	_, err := j.db.Exec(
		`INSERT INTO checkpoints (individual_id, taken_at, state) VALUES (?, ?, ?)`,
		individualID, at.UTC().Format(timeLayout), encodeState(s),
	)
	if err != nil {
		return fmt.Errorf("insert checkpoint: %w", err)
	}
	return nil
}

func (j *Journal) latestCheckpointAt(individualID string, at time.Time) (state.State, time.Time, bool, error) {
	var takenStr string
	var blob []byte
	err := j.db.QueryRow(
		`SELECT taken_at, state FROM checkpoints
		 WHERE individual_id = ? AND taken_at <= ?
		 ORDER BY taken_at DESC LIMIT 1`,
		individualID, at.UTC().Format(timeLayout),
	).Scan(&takenStr, &blob)
	if err == sql.ErrNoRows {
		return state.State{}, time.Time{}, false, nil
	}
	if err != nil {
		return state.State{}, time.Time{}, false, fmt.Errorf("get checkpoint: %w", err)
	}
	taken, _ := time.Parse(timeLayout, takenStr)
	return decodeState(blob), taken, true, nil
}

// #endregion checkpoints

// #region state-at
// StateAt reconstructs an individual's state at an instant: start from
// the newest checkpoint at or before it (falling back to the initial
// state), then alternate decay and event application in timestamp
// order up to the target time.
func (j *Journal) StateAt(individualID string, at time.Time) (state.State, error) {
	ind, err := j.GetIndividual(individualID)
	if err != nil {
		return state.State{}, err
	}
	if at.Before(ind.CreatedAt) {
		return state.State{}, fmt.Errorf("instant %s precedes individual %s", at.Format(time.RFC3339), individualID)
	}

	s, cursor := ind.Initial, ind.CreatedAt
	if cp, taken, ok, err := j.latestCheckpointAt(individualID, at); err != nil {
		return state.State{}, err
	} else if ok {
		s, cursor = cp, taken
	}

	events, err := j.EventsBetween(individualID, cursor, at)
	if err != nil {
		return state.State{}, err
	}
	for _, ev := range events {
		s = evolve.Advance(s, ev.OccurredAt.Sub(cursor))
		s = evolve.ApplyEvent(s, ev.Deltas)
		cursor = ev.OccurredAt
	}
	return evolve.Advance(s, at.Sub(cursor)), nil
}

// #endregion state-at
