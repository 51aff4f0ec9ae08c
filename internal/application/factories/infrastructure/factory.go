package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	go_redis "github.com/redis/go-redis/v9"

	"github.com/dchgoh/SWE30003-ART-System/internal/config"
	"github.com/dchgoh/SWE30003-ART-System/internal/infrastructure/redis"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/jsonstore"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/pgstore"
)

// Factory lazily builds shared infrastructure handles from config and owns
// their lifetime.
type Factory struct {
	cfg      *config.Config
	pgPool   *pgxpool.Pool
	redisCli *go_redis.Client
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// Store builds the record store for the configured backend. The postgres
// backend is migrated on first use.
func (f *Factory) Store(ctx context.Context) (*storage.Store, error) {
	switch f.cfg.Store.Backend {
	case "file", "":
		return jsonstore.NewStore(f.cfg.Store.DataDir), nil
	case "postgres":
		pool, err := f.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrate store tables: %w", err)
		}
		return pgstore.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", f.cfg.Store.Backend)
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	var pool *pgxpool.Pool
	var err error

	for i := 0; i < 5; i++ {
		pool, err = pgstore.NewPool(ctx, pgstore.Config{
			Host:     f.cfg.Postgres.Host,
			Port:     f.cfg.Postgres.Port,
			User:     f.cfg.Postgres.User,
			Password: f.cfg.Postgres.Password,
			DBName:   f.cfg.Postgres.DBName,
		})
		if err == nil {
			break
		}
		slog.Warn("failed to connect to postgres, retrying", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres after retries: %w", err)
	}

	f.pgPool = pool
	return pool, nil
}

func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil {
		return f.redisCli, nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Addr: f.cfg.Redis.Addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

func (f *Factory) Close() {
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisCli != nil {
		f.redisCli.Close()
	}
}
