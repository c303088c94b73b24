package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"

	"github.com/attache-ai/attache/internal/profile"
	"github.com/attache-ai/attache/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection pool for the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}
	pgDB.SetMaxOpenConns(10)
	pgDB.SetMaxIdleConns(5)
	pgDB.SetConnMaxLifetime(time.Hour)

	return &DB{db: pgDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const createRouterFeedbackTable = `
CREATE TABLE IF NOT EXISTS router_feedback (
	id BIGSERIAL PRIMARY KEY,
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

// placeholder returns the PostgreSQL positional parameter for index i.
func placeholder(i int) string {
	return fmt.Sprintf("$%d", i)
}
