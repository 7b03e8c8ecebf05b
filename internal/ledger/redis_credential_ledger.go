package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"hosting-dashboard/internal/models"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// advanceScript stores the credential unless the stored one was issued
// later. issued_at is a fixed-width nanosecond string so Lua compares it
// exactly. Replies {applied, issued_at, token, user}.
const advanceScript = `
local current = redis.call('HMGET', KEYS[1], 'issued_at', 'token', 'user')
if current[1] and current[1] > ARGV[1] then
	return {0, current[1], current[2] or '', current[3] or ''}
end
redis.call('HSET', KEYS[1], 'issued_at', ARGV[1], 'token', ARGV[2], 'user', ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return {1, ARGV[1], ARGV[2], ARGV[3]}
`

type RedisCredentialClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

type RedisCredentialLedger struct {
	client RedisCredentialClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCredentialLedger(client RedisCredentialClient, ttl time.Duration, logger *slog.Logger) *RedisCredentialLedger {
	return &RedisCredentialLedger{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisCredentialLedger) key(sessionKey string) string {
	return "ledger:credential:" + sessionKey
}

func (r *RedisCredentialLedger) Advance(ctx context.Context, key string, credential models.Credential) (models.Credential, bool, error) {
	user, err := json.Marshal(credential.User)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("encode credential user: %w", err)
	}

	reply, err := r.client.Eval(ctx, advanceScript, []string{r.key(key)},
		formatIssuedAt(credential.IssuedAt), credential.Token, string(user), r.ttl.Milliseconds()).Slice()
	if err != nil {
		r.logger.Error("error advancing credential ledger", "error", err)
		return models.Credential{}, false, fmt.Errorf("advance credential: %w", err)
	}

	if len(reply) != 4 {
		return models.Credential{}, false, fmt.Errorf("advance credential: unexpected reply length %d", len(reply))
	}

	applied, _ := reply[0].(int64)
	current, err := decodeCredential(reply[1], reply[2], reply[3])
	if err != nil {
		return models.Credential{}, false, err
	}

	return current, applied == 1, nil
}

func (r *RedisCredentialLedger) Latest(ctx context.Context, key string) (models.Credential, bool, error) {
	values, err := r.client.HMGet(ctx, r.key(key), "issued_at", "token", "user").Result()
	if err != nil {
		r.logger.Error("error executing redis HMGET", "error", err)
		return models.Credential{}, false, fmt.Errorf("read credential: %w", err)
	}

	if len(values) != 3 || values[0] == nil {
		return models.Credential{}, false, nil
	}

	current, err := decodeCredential(values[0], values[1], values[2])
	if err != nil {
		return models.Credential{}, false, err
	}
	return current, true, nil
}

func formatIssuedAt(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

func decodeCredential(issuedAt, token, user interface{}) (models.Credential, error) {
	issuedRaw, _ := issuedAt.(string)
	nanos, err := strconv.ParseInt(issuedRaw, 10, 64)
	if err != nil {
		return models.Credential{}, fmt.Errorf("decode credential issued_at %q: %w", issuedRaw, err)
	}

	credential := models.Credential{IssuedAt: time.Unix(0, nanos)}
	credential.Token, _ = token.(string)

	if raw, _ := user.(string); raw != "" && raw != "null" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return models.Credential{}, fmt.Errorf("decode credential user: %w", err)
		}
		credential.User = &u
	}

	return credential, nil
}
