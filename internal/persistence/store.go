package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/config"
	"github.com/hotelops/housekeeping/internal/repository"
)

// Store is the selected persistence backend with its repositories.
type Store struct {
	Users    repository.UserRepository
	Requests repository.RequestRepository

	driver   string
	postgres *Postgres
	sqlite   *SQLite
	cfg      config.PostgresConfig
	logger   *zap.Logger
}

// OpenStore connects the backend named by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	store := &Store{driver: cfg.Store.Driver, cfg: cfg.Postgres, logger: logger}
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := NewSQLite(cfg.Store.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store.sqlite = db
		store.Users = repository.NewGormUserRepository(db.DB)
		store.Requests = repository.NewGormRequestRepository(db.DB)
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store.postgres = pg
		store.Users = repository.NewUserRepository(pg.PoolHandle())
		store.Requests = repository.NewRequestRepository(pg.PoolHandle())
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	return store, nil
}

// Migrate brings the schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	if s.sqlite != nil {
		return repository.AutoMigrate(s.sqlite.DB.WithContext(ctx))
	}
	return RunMigrations(ctx, s.postgres.PoolHandle(), s.cfg.MigrationsDir, s.logger)
}

// Driver names the active backend.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.sqlite != nil {
		return s.sqlite.Ping(ctx)
	}
	return s.postgres.Ping(ctx)
}

// Close releases backend connections.
func (s *Store) Close() {
	if s.sqlite != nil {
		s.sqlite.Close()
	}
	if s.postgres != nil {
		s.postgres.Close()
	}
}
