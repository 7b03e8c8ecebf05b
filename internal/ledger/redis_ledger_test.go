package ledger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRedisLedgerClient is a mock implementation of RedisLedgerClient
type MockRedisLedgerClient struct {
	mock.Mock
}

func (m *MockRedisLedgerClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

func (m *MockRedisLedgerClient) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	args := m.Called(ctx, cursor, match, count)
	return args.Get(0).(*redis.ScanCmd)
}

func (m *MockRedisLedgerClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Helper function to create a BoolCmd with a result
func createBoolCmd(result bool, err error) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(result)
	}
	return cmd
}

// Helper function to create a single-page ScanCmd
func createScanCmd(keys []string, err error) *redis.ScanCmd {
	cmd := redis.NewScanCmd(context.Background(), nil)
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(keys, 0)
	}
	return cmd
}

func TestRedisLedger_Key(t *testing.T) {
	l := NewRedisLedger(new(MockRedisLedgerClient), time.Hour, slog.Default())

	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "simple code",
			code:     "xyz",
			expected: "ledger:code:3608bca1e44ea6c4d268eb6db02260269892c0b42b86bbf1e77a6fa16c3c9282",
		},
		{
			name:     "empty code",
			code:     "",
			expected: "ledger:code:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.key(tt.code))
		})
	}
}

func TestRedisLedger_Claim(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim", func(t *testing.T) {
		mockClient := new(MockRedisLedgerClient)
		l := NewRedisLedger(mockClient, time.Hour, slog.Default())

		mockClient.On("SetNX", ctx, l.key("xyz"), mock.Anything, time.Hour).
			Return(createBoolCmd(true, nil))

		claimed, err := l.Claim(ctx, "xyz")
		require.NoError(t, err)
		assert.True(t, claimed)
		mockClient.AssertExpectations(t)
	})

	t.Run("replayed code", func(t *testing.T) {
		mockClient := new(MockRedisLedgerClient)
		l := NewRedisLedger(mockClient, time.Hour, slog.Default())

		mockClient.On("SetNX", ctx, l.key("xyz"), mock.Anything, time.Hour).
			Return(createBoolCmd(false, nil))

		claimed, err := l.Claim(ctx, "xyz")
		require.NoError(t, err)
		assert.False(t, claimed)
		mockClient.AssertExpectations(t)
	})

	t.Run("redis error", func(t *testing.T) {
		mockClient := new(MockRedisLedgerClient)
		l := NewRedisLedger(mockClient, time.Hour, slog.Default())

		mockClient.On("SetNX", ctx, l.key("xyz"), mock.Anything, time.Hour).
			Return(createBoolCmd(false, errors.New("connection error")))

		claimed, err := l.Claim(ctx, "xyz")
		assert.Error(t, err)
		assert.False(t, claimed)
		mockClient.AssertExpectations(t)
	})
}

func TestRedisLedger_Size(t *testing.T) {
	ctx := context.Background()

	t.Run("counts claimed keys", func(t *testing.T) {
		mockClient := new(MockRedisLedgerClient)
		l := NewRedisLedger(mockClient, time.Hour, slog.Default())

		mockClient.On("Scan", ctx, uint64(0), "ledger:code:*", int64(scanBatchSize)).
			Return(createScanCmd([]string{"ledger:code:a", "ledger:code:b"}, nil))

		assert.Equal(t, 2, l.Size(ctx))
		mockClient.AssertExpectations(t)
	})

	t.Run("redis error", func(t *testing.T) {
		mockClient := new(MockRedisLedgerClient)
		l := NewRedisLedger(mockClient, time.Hour, slog.Default())

		mockClient.On("Scan", ctx, uint64(0), "ledger:code:*", int64(scanBatchSize)).
			Return(createScanCmd(nil, errors.New("connection error")))

		assert.Equal(t, 0, l.Size(ctx))
		mockClient.AssertExpectations(t)
	})
}

func TestRedisLedger_Close(t *testing.T) {
	mockClient := new(MockRedisLedgerClient)
	l := NewRedisLedger(mockClient, time.Hour, slog.Default())

	mockClient.On("Close").Return(nil)

	assert.NoError(t, l.Close())
	mockClient.AssertExpectations(t)
}
