package auth

import (
	"context"
	"database/sql"
	"io/fs"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Store owns the user store connection: opened once at startup, reused by
// every request, liveness-checked rather than re-established, and closed on
// shutdown.
type Store struct {
	db *bun.DB
}

// NewStore opens the backing database, runs migrations, and returns the
// owned handle. Callers inject the handle; nothing in this package keeps
// module-level connection state.
func NewStore(ctx context.Context, cfg persistence.Config, dsn string) (*Store, error) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, wrapStoreError(err, "failed to open user store")
	}

	persistence.RegisterModel((*User)(nil))

	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		return nil, wrapStoreError(err, "failed to initialize user store client")
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, wrapStoreError(err, "failed to load user store migrations")
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return nil, wrapStoreError(err, "failed to migrate user store")
	}

	return &Store{db: client.DB()}, nil
}

// DB exposes the shared connection for repository construction.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping checks connection liveness. It never re-establishes the connection;
// a dead store surfaces as ErrStoreUnavailable for the caller to retry.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	if err := s.db.PingContext(ctx); err != nil {
		return wrapStoreError(err, "user store liveness check failed")
	}
	return nil
}

// Close releases the connection on shutdown.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
