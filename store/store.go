package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database access.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	CreateRouterFeedback(ctx context.Context, create *RouterFeedback) (*RouterFeedback, error)
	ListRouterFeedback(ctx context.Context, find *FindRouterFeedback) ([]*RouterFeedback, error)
	GetRouterStats(ctx context.Context) (*RouterStats, error)
}

// Store provides database access to all raw objects.
type Store struct {
	driver Driver
}

// New creates a new instance of Store.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateRouterFeedback(ctx context.Context, create *RouterFeedback) (*RouterFeedback, error) {
	return s.driver.CreateRouterFeedback(ctx, create)
}

func (s *Store) ListRouterFeedback(ctx context.Context, find *FindRouterFeedback) ([]*RouterFeedback, error) {
	return s.driver.ListRouterFeedback(ctx, find)
}

func (s *Store) GetRouterStats(ctx context.Context) (*RouterStats, error) {
	return s.driver.GetRouterStats(ctx)
}
