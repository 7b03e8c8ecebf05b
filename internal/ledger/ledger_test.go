package ledger

import (
	"hosting-dashboard/internal/config"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedger(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Ledger: config.LedgerConfig{Type: "memory", TTL: time.Hour}}

		l, err := NewLedger(cfg, nil, slog.Default())
		require.NoError(t, err)
		assert.IsType(t, &MemoryLedger{}, l)
	})

	t.Run("redis without client", func(t *testing.T) {
		cfg := &config.Config{Ledger: config.LedgerConfig{Type: "redis", TTL: time.Hour}}

		_, err := NewLedger(cfg, nil, slog.Default())
		assert.Error(t, err)
	})
}

func TestNewCredentialLedger(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Ledger: config.LedgerConfig{Type: "memory"}, Sessions: config.DefaultSessionConfig}

		l, err := NewCredentialLedger(cfg, nil, slog.Default())
		require.NoError(t, err)
		assert.IsType(t, &MemoryCredentialLedger{}, l)
	})

	t.Run("redis without client", func(t *testing.T) {
		cfg := &config.Config{Ledger: config.LedgerConfig{Type: "redis"}, Sessions: config.DefaultSessionConfig}

		_, err := NewCredentialLedger(cfg, nil, slog.Default())
		assert.Error(t, err)
	})
}
