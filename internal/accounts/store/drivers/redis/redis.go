// Package redis implements store.Ephemeral on Redis. Single-use credentials
// (refresh tokens, pending registrations, authorization codes) live here so
// they expire server-side and survive service restarts.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/meridianapps/accounts/internal/accounts/store"
)

// redeemScript reads a hash and deletes it in one round trip. HGETALL on a
// missing key returns an empty array, which we pass back unchanged so the
// caller can distinguish a miss without a second call.
var redeemScript = goredis.NewScript(`
local v = redis.call('HGETALL', KEYS[1])
if #v == 0 then
  return v
end
redis.call('DEL', KEYS[1])
return v
`)

// Store implements store.Ephemeral.
type Store struct {
	client *goredis.Client
}

// NewStore connects to Redis at the given URL (redis://[user:pass@]host:port/db)
// and verifies the connection.
func NewStore(ctx context.Context, url string) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing client. Used by tests with miniredis.
func NewStoreWithClient(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) GetDel(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: getdel %q: %w", key, err)
	}
	return val, nil
}

func (s *Store) PutFields(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error {
	// HSET and EXPIRE must land together or the record could live forever.
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: put fields %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetFields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get fields %q: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}
	return fields, nil
}

func (s *Store) RedeemFields(ctx context.Context, key string) (map[string]string, error) {
	res, err := redeemScript.Run(ctx, s.client, []string{key}).Slice()
	if err != nil {
		return nil, fmt.Errorf("redis: redeem %q: %w", key, err)
	}
	if len(res) == 0 {
		return nil, store.ErrNotFound
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		k, ok := res[i].(string)
		if !ok {
			return nil, fmt.Errorf("redis: redeem %q: unexpected field key %T", key, res[i])
		}
		v, ok := res[i+1].(string)
		if !ok {
			return nil, fmt.Errorf("redis: redeem %q: unexpected field value %T", key, res[i+1])
		}
		fields[k] = v
	}
	return fields, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis: exists %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
