package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/internal/config"
	"github.com/homeharmony/backend/internal/infrastructure/monitor"
	pgInfra "github.com/homeharmony/backend/internal/infrastructure/postgres"
	"github.com/homeharmony/backend/internal/services/lifecycle"
	"github.com/homeharmony/backend/repository"
	boltRepo "github.com/homeharmony/backend/repository/bolt"
	"github.com/homeharmony/backend/repository/memory"
	"github.com/homeharmony/backend/repository/postgres"
	redisRepo "github.com/homeharmony/backend/repository/redis"
	"github.com/homeharmony/backend/repository/sqlite"
)

type stores struct {
	members repository.MemberRepository
	tasks   repository.TaskRepository
	items   repository.ItemRepository
	ledger  repository.FollowUpLedger
	pool    *pgxpool.Pool
	probes  []monitor.Probe
}

// openStores connects the primary store selected by STORAGE_DRIVER and the
// follow-up ledger selected by LEDGER_DRIVER.
func openStores(ctx context.Context, cfg *config.Config, boltDB *bolt.DB, redisClient *redislib.Client, manager *lifecycle.Manager, log *zap.Logger) (*stores, error) {
	s := &stores{}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, log); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, log)
			return nil
		})
		s.pool = pool
		s.members = postgres.NewMemberRepository(pool)
		s.tasks = postgres.NewTaskRepository(pool)
		s.items = postgres.NewItemRepository(pool)
		s.probes = append(s.probes, monitor.PostgresProbe(pool))

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		manager.RegisterCloser("sqlite", func() error { return sqlite.Close(db) })
		s.members = sqlite.NewMemberRepository(db)
		s.tasks = sqlite.NewTaskRepository(db)
		s.items = sqlite.NewItemRepository(db)
		s.probes = append(s.probes, monitor.SQLiteProbe(db))

	default:
		log.Warn("using in-memory storage; data is lost on restart")
		s.members = memory.NewMemberRepository()
		s.tasks = memory.NewTaskRepository()
		s.items = memory.NewItemRepository()
	}

	switch cfg.Storage.LedgerDriver {
	case config.DriverBolt:
		ledger, err := boltRepo.NewFollowUpLedger(boltDB)
		if err != nil {
			return nil, fmt.Errorf("bolt ledger: %w", err)
		}
		s.ledger = ledger
	case config.DriverRedis:
		s.ledger = redisRepo.NewFollowUpLedger(redisClient)
	case config.DriverPostgres:
		s.ledger = postgres.NewFollowUpLedger(s.pool)
	default:
		s.ledger = memory.NewFollowUpLedger()
	}
	log.Info("storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("ledger", cfg.Storage.LedgerDriver))
	return s, nil
}
