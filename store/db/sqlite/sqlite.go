package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/attache-ai/attache/internal/profile"
	"github.com/attache-ai/attache/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database named by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// WAL journal mode plus a generous busy timeout keeps the single-writer
	// model workable for a local instance. With the `modernc.org/sqlite`
	// driver each pragma must be prefixed with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// A single connection is optimal for SQLite with WAL.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	return &DB{db: sqliteDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const createRouterFeedbackTable = `
CREATE TABLE IF NOT EXISTS router_feedback (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	decision_id TEXT NOT NULL,
	selected_agent TEXT NOT NULL,
	correct_agent TEXT NOT NULL DEFAULT '',
	feedback_type TEXT NOT NULL,
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_router_feedback_created_ts ON router_feedback (created_ts);
CREATE INDEX IF NOT EXISTS idx_router_feedback_agent ON router_feedback (selected_agent);
`

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, createRouterFeedbackTable); err != nil {
		return errors.Wrap(err, "failed to migrate router_feedback")
	}
	return nil
}
