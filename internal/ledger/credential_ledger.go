package ledger

import (
	"context"
	"fmt"
	"hosting-dashboard/internal/config"
	"hosting-dashboard/internal/models"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// CredentialLedger keeps the newest credential committed for each client
// session. Advance only replaces the stored credential when the candidate was
// issued no earlier than it, so requests holding stale copies of the same
// session cannot roll it back.
type CredentialLedger interface {
	Advance(ctx context.Context, key string, credential models.Credential) (current models.Credential, advanced bool, err error)
	Latest(ctx context.Context, key string) (models.Credential, bool, error)
}

// NewCredentialLedger returns the credential ledger for cfg.Ledger.Type.
// Records live as long as a session can.
func NewCredentialLedger(cfg *config.Config, client *redis.Client, logger *slog.Logger) (CredentialLedger, error) {
	switch cfg.Ledger.Type {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("redis credential ledger requires a redis client")
		}
		return NewRedisCredentialLedger(client, cfg.Sessions.FixedTimeout, logger), nil
	case "memory":
		fallthrough
	default:
		return NewMemoryCredentialLedger(cfg.Sessions.FixedTimeout), nil
	}
}
