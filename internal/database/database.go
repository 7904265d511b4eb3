// Package database provides SQLite storage for the LinkHub backend.
package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc.org/sqlite registers itself as "sqlite"; sqlx has to be told
	// which bindvar style the driver speaks.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DB wraps the SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	// WAL permits concurrent readers alongside the single writer; the
	// cascade from feeds to feed_items needs foreign_keys on every
	// connection, so both pragmas go in the DSN.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	conn, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS feeds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_private INTEGER DEFAULT 0,
		position INTEGER DEFAULT 0,
		is_in_onboarding INTEGER DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS feed_items (
		id TEXT PRIMARY KEY,
		feed_id TEXT NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
		linkedin_id TEXT DEFAULT '',
		name TEXT DEFAULT '',
		photo TEXT DEFAULT '',
		url TEXT DEFAULT '',
		headline TEXT DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_text TEXT DEFAULT '',
		comment_text TEXT DEFAULT '',
		post_urn TEXT DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS stats (
		date TEXT PRIMARY KEY,
		count INTEGER DEFAULT 0
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// now returns the current timestamp in the stored format. RFC3339 with
// nanoseconds sorts lexically in chronological order, which the created_at
// ORDER BY clauses rely on.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// DayKey returns the stats table key for the calendar day of t, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Today returns the stats table key for the current day.
func Today() string {
	return DayKey(time.Now())
}
