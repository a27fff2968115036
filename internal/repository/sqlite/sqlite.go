// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no CGo and no C toolchain. The blank import below registers it with
// database/sql under the name "sqlite"; sql.Open gives us a connection
// pool, not a single connection.
//
// Three pragmas matter here:
//   - journal_mode=WAL: reads proceed concurrently with a write, which a
//     web server needs
//   - foreign_keys=ON: OFF by default in SQLite; the schema leans on
//     cascading foreign keys (user → posts → votes), so it must be on for
//     the data model's invariants to hold at all
//   - busy_timeout: concurrent writers wait instead of failing with
//     SQLITE_BUSY
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB owns the sql.DB connection pool. Each entity gets its own repository
// view over the shared pool — Users(), Posts(), Comments(), Votes() — so
// the per-entity method sets stay small and the compile-time interface
// checks live next to the methods they cover.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository view.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Posts returns the post repository view.
func (db *DB) Posts() *PostDB { return &PostDB{conn: db.conn} }

// Comments returns the comment repository view.
func (db *DB) Comments() *CommentDB { return &CommentDB{conn: db.conn} }

// Votes returns the vote repository view.
func (db *DB) Votes() *VoteDB { return &VoteDB{conn: db.conn} }

// New opens the database at dbPath, verifies the connection and runs the
// schema migration.
//
// The pragmas ride in the DSN rather than a one-off Exec: foreign_keys is
// per-connection state, and sql.Open returns a pool — a pragma executed on
// one pooled connection would not apply to the next one the pool opens.
// The driver replays _pragma parameters on every new connection.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always deferred next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; for this schema size a migration tracker would be overhead.
//
// Cascade rules encode the data model's lifecycle:
//   - deleting a user deletes their posts and their votes
//   - deleting a post deletes the votes on it
//
// The votes table has no direction column: the row's existence is the
// up-vote, and its composite primary key is what turns a concurrent
// duplicate insert into a constraint failure for exactly one of the two
// writers.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			published  BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_posts_owner_id ON posts(owner_id);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

		CREATE TABLE IF NOT EXISTS comments (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			content TEXT NOT NULL,
			author  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS votes (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, post_id)
		);
		CREATE INDEX IF NOT EXISTS idx_votes_post_id ON votes(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure. modernc.org/sqlite doesn't export a typed error for
// this, so we match the stable message SQLite itself produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY constraint
// failure — e.g. a vote inserted for a post that no longer exists.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
