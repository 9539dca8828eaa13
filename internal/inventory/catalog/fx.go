package catalog

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quotedesk/internal/config"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("inventory.catalog",
	fx.Provide(provideSnapshotStore),
	fx.Provide(provideCatalog),
	fx.Invoke(primeOnStart),
)

func provideSnapshotStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) SnapshotStore {
	if !cfg.Redis.Enabled || strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("inventory snapshot store enabled", zap.String("addr", cfg.Redis.Addr))
	return NewRedisSnapshotStore(client, cfg.Redis.SnapshotTTL)
}

func provideCatalog(client *storeclient.Client, store SnapshotStore, log *zap.Logger) *Catalog {
	return New(client, store, log)
}

// primeOnStart loads the inventory in the background so a slow store never
// delays startup.
func primeOnStart(lc fx.Lifecycle, c *Catalog) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go c.Prime(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
