package server

import (
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/metrics"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

// newRedisClient connects to db directly or through sentinel. subsystem
// labels the pool metrics exported on the debug server.
func newRedisClient(cfg *config.Config, db int, subsystem string, logger *slog.Logger) *redis.Client {
	var client *redis.Client

	if cfg.Redis.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Redis.Sentinel.MasterName,
			"sentinels", cfg.Redis.Sentinel.SentinelAddresses,
			"db", db)

		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Redis.Sentinel.MasterName,
			SentinelAddrs:    cfg.Redis.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Redis.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Redis.Sentinel.SentinelPassword,
			Username:         cfg.Redis.Username,
			Password:         cfg.Redis.Password,
			DB:               db,
			MinIdleConns:     2,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Username:     cfg.Redis.Username,
			Password:     cfg.Redis.Password,
			DB:           db,
			MinIdleConns: 2,
		})
	}

	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		collector := redisprometheus.NewCollector(metrics.Namespace, subsystem, client)
		if err := prometheus.Register(collector); err != nil {
			logger.Debug("failed to register redis collector: already registered", "subsystem", subsystem, "error", err)
		}
	}

	return client
}
