package persistence

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLite wraps a gorm handle on a SQLite database file.
type SQLite struct {
	DB *gorm.DB
}

// NewSQLite opens the database at path. Use ":memory:" for an ephemeral store.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writers; a single connection also keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)

	logger.Info("opened sqlite store", zap.String("path", path))
	return &SQLite{DB: db}, nil
}

// Ping verifies the database handle is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *SQLite) Close() {
	if s == nil || s.DB == nil {
		return
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
