// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/store.go
// Summary: SQLite FTS5 index over executed terminal commands.
// Usage: The effect runner records commands as they run; Import backfills
// restored history on boot. Search supports substring and time-range queries.

package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one indexed terminal command.
type Entry struct {
	ID         int64
	ExecutedAt time.Time
	Command    string
}

// Config holds tuning for the history store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of backfill entries accumulated before a
	// flush. Default: 100.
	BatchSize int

	// BatchTimeout bounds how long a partial backfill batch waits.
	// Default: 5s.
	BatchTimeout time.Duration

	// ChannelBuffer sizes the async backfill channel. Default: 1000.
	ChannelBuffer int
}

// DefaultConfig returns sensible defaults for dbPath.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

type backfillEntry struct {
	executedAt time.Time
	command    string
}

// Store is the SQLite-backed command history index. Live commands are
// indexed synchronously for immediate searchability; backfill goes through
// an async batcher.
type Store struct {
	config Config
	db     *sql.DB

	batchChan chan backfillEntry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu sync.RWMutex
}

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS commands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    executed_at INTEGER NOT NULL,     -- UnixNano
    command TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commands_executed_at ON commands(executed_at);
`

// Trigram tokenization enables substring matches ("open note", "-la").
const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS commands_fts USING fts5(
    command,
    content='commands',
    content_rowid='id',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS commands_ai AFTER INSERT ON commands BEGIN
    INSERT INTO commands_fts(rowid, command) VALUES (new.id, new.command);
END;

CREATE TRIGGER IF NOT EXISTS commands_ad AFTER DELETE ON commands BEGIN
    INSERT INTO commands_fts(commands_fts, rowid, command) VALUES ('delete', old.id, old.command);
END;
`

// Open creates or opens a history store at dbPath with default tuning.
func Open(dbPath string) (*Store, error) {
	return OpenWithConfig(DefaultConfig(dbPath))
}

// OpenWithConfig creates or opens a history store.
func OpenWithConfig(config Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(-8000)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	needsReindex, err := checkAndMigrateSchema(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(ftsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history FTS schema: %w", err)
	}

	if needsReindex {
		log.Printf("History: schema changed, rebuilding FTS index")
		if _, err := db.Exec("INSERT INTO commands_fts(rowid, command) SELECT id, command FROM commands"); err != nil {
			db.Close()
			return nil, fmt.Errorf("rebuild history FTS index: %w", err)
		}
	}

	s := &Store{
		config:    config,
		db:        db,
		batchChan: make(chan backfillEntry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go s.batchIndexer()
	return s, nil
}

func checkAndMigrateSchema(db *sql.DB) (bool, error) {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&currentVersion)
	if err != nil {
		currentVersion = 0
	}
	if currentVersion == schemaVersion {
		return false, nil
	}

	log.Printf("History: migrating schema from version %d to %d", currentVersion, schemaVersion)

	migrations := []string{
		"DROP TRIGGER IF EXISTS commands_ai",
		"DROP TRIGGER IF EXISTS commands_ad",
		"DROP TABLE IF EXISTS commands_fts",
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return false, fmt.Errorf("history migration failed on %q: %w", stmt, err)
		}
	}

	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return false, fmt.Errorf("update history schema version: %w", err)
	}
	return currentVersion != 0, nil
}

func (s *Store) batchIndexer() {
	defer close(s.doneCh)

	batch := make([]backfillEntry, 0, s.config.BatchSize)
	timer := time.NewTimer(s.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.flushBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-s.batchChan:
			batch = append(batch, entry)
			if len(batch) >= s.config.BatchSize {
				flush()
				timer.Reset(s.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(s.config.BatchTimeout)

		case done := <-s.flushCh:
			draining := true
			for draining {
				select {
				case entry := <-s.batchChan:
					batch = append(batch, entry)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-s.stopCh:
			for {
				select {
				case entry := <-s.batchChan:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *Store) flushBatch(batch []backfillEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("History: begin backfill transaction failed: %v", err)
		return
	}

	stmt, err := tx.Prepare("INSERT INTO commands (executed_at, command) VALUES (?, ?)")
	if err != nil {
		log.Printf("History: prepare backfill statement failed: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.executedAt.UnixNano(), e.command); err != nil {
			log.Printf("History: backfill insert failed: %v", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("History: commit backfill batch failed: %v", err)
	}
}

// Record indexes a freshly executed command synchronously so it is
// searchable immediately.
func (s *Store) Record(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO commands (executed_at, command) VALUES (?, ?)",
		time.Now().UnixNano(), command,
	)
	return err
}

// Import queues restored history commands for async indexing. The commands
// are stamped with synthetic ascending timestamps before base so live
// entries always sort after them. Entries are dropped when the backfill
// channel is full.
func (s *Store) Import(commands []string, base time.Time) {
	start := base.Add(-time.Duration(len(commands)) * time.Second)
	for i, command := range commands {
		command = strings.TrimSpace(command)
		if command == "" {
			continue
		}
		entry := backfillEntry{
			executedAt: start.Add(time.Duration(i) * time.Second),
			command:    command,
		}
		select {
		case s.batchChan <- entry:
		default:
			log.Printf("History: backfill channel full, dropping entry")
		}
	}
}

// Recent returns the most recently executed commands, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, executed_at, command
		FROM commands
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search matches a substring query against the history, newest first.
// Queries shorter than three characters fall back to LIKE because the
// trigram tokenizer cannot produce a trigram for them.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	return s.search(query, nil, nil, limit)
}

// SearchInRange searches within [start, end].
func (s *Store) SearchInRange(query string, start, end time.Time, limit int) ([]Entry, error) {
	return s.search(query, &start, &end, limit)
}

func (s *Store) search(query string, start, end *time.Time, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rows *sql.Rows
		err  error
	)

	rangeClause := ""
	rangeArgs := []any{}
	if start != nil && end != nil {
		rangeClause = " AND executed_at >= ? AND executed_at <= ?"
		rangeArgs = append(rangeArgs, start.UnixNano(), end.UnixNano())
	}

	if len(query) < 3 {
		likePattern := "%" + strings.ReplaceAll(strings.ReplaceAll(query, "%", "\\%"), "_", "\\_") + "%"
		args := append([]any{likePattern}, rangeArgs...)
		args = append(args, limit)
		rows, err = s.db.Query(`
			SELECT id, executed_at, command
			FROM commands
			WHERE command LIKE ? ESCAPE '\'`+rangeClause+`
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		`, args...)
	} else {
		// Double quotes make the trigram match a literal substring, which
		// keeps queries with flags and spaces ("open -n") working.
		quoted := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
		clause := strings.ReplaceAll(rangeClause, "executed_at", "c.executed_at")
		args := append([]any{quoted}, rangeArgs...)
		args = append(args, limit)
		rows, err = s.db.Query(`
			SELECT c.id, c.executed_at, c.command
			FROM commands_fts
			JOIN commands c ON c.id = commands_fts.rowid
			WHERE commands_fts MATCH ?`+clause+`
			ORDER BY c.executed_at DESC, c.id DESC
			LIMIT ?
		`, args...)
	}

	if err != nil {
		return nil, fmt.Errorf("history search failed: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var tsNano int64
		if err := rows.Scan(&e.ID, &tsNano, &e.Command); err != nil {
			continue
		}
		e.ExecutedAt = time.Unix(0, tsNano)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Flush blocks until all queued backfill entries are indexed.
func (s *Store) Flush() error {
	done := make(chan struct{})
	select {
	case s.flushCh <- done:
		<-done
	case <-s.stopCh:
	}
	return nil
}

// Close flushes pending writes and closes the database.
func (s *Store) Close() error {
	close(s.stopCh)
	<-s.doneCh
	return s.db.Close()
}
