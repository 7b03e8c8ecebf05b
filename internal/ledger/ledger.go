package ledger

import (
	"context"
	"fmt"
	"hosting-dashboard/internal/config"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks

// Ledger records every authorization code handed to an exchange. Claim
// returns true only for the first caller presenting a given code.
type Ledger interface {
	Claim(ctx context.Context, code string) (bool, error)
	Size(ctx context.Context) int
	Close() error
}

// NewLedger returns the ledger selected by cfg.Ledger.Type. client is only
// used for the redis ledger.
func NewLedger(cfg *config.Config, client *redis.Client, logger *slog.Logger) (Ledger, error) {
	switch cfg.Ledger.Type {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis ledger requires a redis client")
		}
		return NewRedisLedger(client, cfg.Ledger.TTL, logger), nil
	case "memory":
		fallthrough
	default:
		return NewMemoryLedger(cfg.Ledger.TTL), nil
	}
}
