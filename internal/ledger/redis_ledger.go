package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hosting-dashboard/internal/metrics"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 500

type RedisLedgerClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

type RedisLedger struct {
	client RedisLedgerClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisLedger(client RedisLedgerClient, ttl time.Duration, logger *slog.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// key hashes the code so raw authorization codes never land in redis
func (r *RedisLedger) key(code string) string {
	sum := sha256.Sum256([]byte(code))
	return fmt.Sprintf("ledger:code:%s", hex.EncodeToString(sum[:]))
}

func (r *RedisLedger) Claim(ctx context.Context, code string) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.LedgerClaimDuration.WithLabelValues(metrics.LedgerTypeRedis).Observe(time.Since(start).Seconds())
	}()

	claimed, err := r.client.SetNX(ctx, r.key(code), time.Now().Unix(), r.ttl).Result()
	if err != nil {
		r.logger.Error("error executing redis SETNX", "error", err)
		metrics.LedgerClaims.WithLabelValues(metrics.LedgerTypeRedis, metrics.ClaimResultError).Inc()
		return false, fmt.Errorf("claim authorization code: %w", err)
	}

	if !claimed {
		metrics.LedgerClaims.WithLabelValues(metrics.LedgerTypeRedis, metrics.ClaimResultReplay).Inc()
		return false, nil
	}

	metrics.LedgerClaims.WithLabelValues(metrics.LedgerTypeRedis, metrics.ClaimResultClaimed).Inc()
	return true, nil
}

// Size counts claimed codes with an incremental SCAN.
func (r *RedisLedger) Size(ctx context.Context) int {
	count := 0
	iter := r.client.Scan(ctx, 0, "ledger:code:*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("error executing redis SCAN", "error", err)
		return 0
	}

	metrics.LedgerItems.WithLabelValues(metrics.LedgerTypeRedis).Set(float64(count))
	return count
}

func (r *RedisLedger) Close() error {
	return r.client.Close()
}
