package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasktimer/internal/config"
	pgclient "github.com/fastygo/tasktimer/internal/infrastructure/postgres"
	redisclient "github.com/fastygo/tasktimer/internal/infrastructure/redis"
	"github.com/fastygo/tasktimer/repository"
	boltrepo "github.com/fastygo/tasktimer/repository/bolt"
	"github.com/fastygo/tasktimer/repository/memory"
	pgrepo "github.com/fastygo/tasktimer/repository/postgres"
	redisrepo "github.com/fastygo/tasktimer/repository/redis"
)

// Store is an opened task record store together with what it holds open.
type Store struct {
	Tasks  repository.TaskRepository
	Driver string
	// Durable is false when the store does not survive a restart.
	Durable bool

	closers []func() error
}

// Open connects the store selected by cfg.Store.Driver. The auto driver
// uses BoltDB and falls back to process memory when the file cannot be opened.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return openMemory(), nil
	case config.DriverBolt:
		return openBolt(cfg.Store, logger)
	case config.DriverRedis:
		return openRedis(ctx, cfg.Redis, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverAuto, "":
		store, err := openBolt(cfg.Store, logger)
		if err == nil {
			return store, nil
		}
		logger.Warn("bolt store unavailable, tasks will not persist",
			zap.String("path", cfg.Store.BoltPath), zap.Error(err))
		return openMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Close releases every resource the store opened, newest first.
func (s *Store) Close() error {
	var result error
	for i := len(s.closers) - 1; i >= 0; i-- {
		result = errors.Join(result, s.closers[i]())
	}
	s.closers = nil
	return result
}

func openMemory() *Store {
	return &Store{Tasks: memory.NewTaskRepository(), Driver: config.DriverMemory}
}

func openBolt(cfg config.StoreConfig, logger *zap.Logger) (*Store, error) {
	repo, err := boltrepo.Open(cfg.BoltPath, cfg.BoltBucket)
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", cfg.BoltPath, err)
	}
	logger.Info("bolt store opened", zap.String("path", cfg.BoltPath))
	return &Store{
		Tasks:   repo,
		Driver:  config.DriverBolt,
		Durable: true,
		closers: []func() error{repo.Close},
	}, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Store, error) {
	client, err := redisclient.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("redis store connected", zap.String("prefix", cfg.Prefix))
	return &Store{
		Tasks:   redisrepo.NewTaskRepository(client, cfg.Prefix),
		Driver:  config.DriverRedis,
		Durable: true,
		closers: []func() error{client.Close},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if err := pgclient.RunMigrations(cfg, logger); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	pool, err := pgclient.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{
		Tasks:   pgrepo.NewTaskRepository(pool),
		Driver:  config.DriverPostgres,
		Durable: true,
		closers: []func() error{func() error {
			pgclient.Close(pool, logger)
			return nil
		}},
	}, nil
}
