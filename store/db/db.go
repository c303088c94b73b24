package db

import (
	"github.com/pkg/errors"

	"github.com/attache-ai/attache/internal/profile"
	"github.com/attache-ai/attache/store"
	"github.com/attache-ai/attache/store/db/postgres"
	"github.com/attache-ai/attache/store/db/sqlite"
)

// NewDBDriver creates a database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unsupported database driver: %s", profile.Driver)
	}
}
