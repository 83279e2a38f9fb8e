package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/pixieauth/internal/config"
	"github.com/yourorg/pixieauth/internal/db"
	"github.com/yourorg/pixieauth/internal/models"
)

// Store is a user store with a lifecycle. Both MemoryStore and SQLStore implement it.
type Store interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user models.User) (models.User, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLStore)(nil)
)

// Open returns the store selected by cfg.Driver. SQL backends are retried
// every cfg.ConnectRetry until they connect and migrate, or ctx is done.
func Open(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (Store, error) {
	if cfg.Driver == config.DriverMemory {
		return NewMemoryStore(), nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	retry := cfg.ConnectRetry
	if retry <= 0 {
		retry = 5 * time.Second
	}

	for {
		s, err := openSQL(ctx, cfg)
		if err == nil {
			return s, nil
		}
		logger.Warn("store not ready, retrying",
			zap.String("driver", cfg.Driver), zap.Duration("retry_in", retry), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("open %s store: %w", cfg.Driver, ctx.Err())
		case <-time.After(retry):
		}
	}
}

func openSQL(ctx context.Context, cfg config.DBConfig) (*SQLStore, error) {
	conn, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if !cfg.SkipSchema {
		if err := db.EnsureSchema(ctx, conn.DB, cfg.Driver); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	s, err := NewSQLStore(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}
