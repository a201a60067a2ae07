// Package store implements the persistence side of spec.md §6.4: a local
// SQLite cache (written immediately, pre-cloud) plus a pluggable cloud
// key-value interface, keyed by (camp_id, date_key, scheduler_id). Neither
// half is consulted by pkg/scheduler — the engine is pure; callers persist
// whatever it returns through this package.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gitrdm/campsched/pkg/scheduler"
)

// Key identifies one persisted day's schedule (spec.md §6.4 "Per-date key").
type Key struct {
	CampID      string
	DateKey     string
	SchedulerID string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.CampID, k.DateKey, k.SchedulerID)
}

// PersistedState is the per-date record spec.md §6.4 describes:
// "{scheduleAssignments, leagueAssignments, unifiedTimes, metadata timestamps}".
type PersistedState struct {
	ScheduleAssignments []scheduler.Assignment `json:"scheduleAssignments"`
	LeagueAssignments   []scheduler.Matchup    `json:"leagueAssignments"`
	UnifiedTimes        []scheduler.TimeSlot   `json:"unifiedTimes"`
	SavedAt             time.Time              `json:"savedAt"`
}

// LocalCache is the immediate, pre-cloud write target (spec.md §6.3
// "localStorage (immediate, pre-cloud)").
type LocalCache interface {
	Save(key Key, state PersistedState) error
	Load(key Key) (PersistedState, bool, error)
}

// CloudStore is the keyed cloud write target (spec.md §6.3/§6.4). skipFilter
// mirrors the bypass-mode flag that skips row-level access control; the
// engine's own behavior never depends on it (spec.md §4.15).
type CloudStore interface {
	Put(ctx context.Context, key Key, state PersistedState, skipFilter bool) error
	Get(ctx context.Context, key Key) (PersistedState, bool, error)
}

// SQLiteCache is a LocalCache backed by a single SQLite table of
// JSON-encoded blobs, keyed by the Key's string form.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (creating if absent) a SQLite database at path and
// ensures its schema exists.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite cache %q: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS schedule_state (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schedule_state schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *SQLiteCache) Close() error { return c.db.Close() }

// Save upserts state under key.
func (c *SQLiteCache) Save(key Key, state PersistedState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling persisted state for %s: %w", key, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO schedule_state (key, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		key.String(), string(payload), state.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("saving persisted state for %s: %w", key, err)
	}
	return nil
}

// Load fetches state for key, returning ok=false if nothing is stored.
func (c *SQLiteCache) Load(key Key) (PersistedState, bool, error) {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM schedule_state WHERE key = ?`, key.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return PersistedState{}, false, nil
	}
	if err != nil {
		return PersistedState{}, false, fmt.Errorf("loading persisted state for %s: %w", key, err)
	}
	var state PersistedState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return PersistedState{}, false, fmt.Errorf("decoding persisted state for %s: %w", key, err)
	}
	return state, true, nil
}

// InMemoryCloudStore is a process-local stand-in for the cloud KV store
// spec.md §6.3/§6.4 describes. No concrete cloud SDK appears anywhere in
// the retrieval pack, so this satisfies CloudStore without inventing a
// dependency; a real deployment swaps this for a client against whatever
// cloud KV service the camp uses.
type InMemoryCloudStore struct {
	mu    sync.RWMutex
	items map[string]PersistedState
}

// NewInMemoryCloudStore returns an empty store.
func NewInMemoryCloudStore() *InMemoryCloudStore {
	return &InMemoryCloudStore{items: make(map[string]PersistedState)}
}

func (s *InMemoryCloudStore) Put(_ context.Context, key Key, state PersistedState, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key.String()] = state
	return nil
}

func (s *InMemoryCloudStore) Get(_ context.Context, key Key) (PersistedState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.items[key.String()]
	return state, ok, nil
}

// PostEditGuard implements the "_postEditInProgress" flag from spec.md §6.3:
// while active, a caller's snapshot-reload path must short-circuit so a
// racing cloud load doesn't clobber a just-written repair.
type PostEditGuard struct {
	mu      sync.Mutex
	expires time.Time
}

// Start marks the guard active until now+window.
func (g *PostEditGuard) Start(now time.Time, window time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expires = now.Add(window)
}

// Active reports whether the guard is still protecting against reload at now.
func (g *PostEditGuard) Active(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return now.Before(g.expires)
}
