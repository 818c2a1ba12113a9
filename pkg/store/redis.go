package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/floorplan/pkg/placement"
)

// DefaultRedisAddr is used when RedisConfig.Addr is empty.
const DefaultRedisAddr = "localhost:6379"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Defaults to "floorplan:placement:".
	Prefix string
}

// RedisStore keeps each placement in a Redis hash with the fields
// revision, saved_at, blocks and body.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and pings it, retrying transient failures.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultRedisAddr
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "floorplan:placement:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		return Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, storeError(BackendRedis, err, "connect %s", cfg.Addr)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(k placement.Key) string { return s.prefix + k.String() }

func (s *RedisStore) Load(ctx context.Context, key placement.Key) (*placement.Document, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, storeError(BackendRedis, err, "load %s", key)
	}
	body, ok := fields["body"]
	if !ok {
		return nil, ErrNotFound
	}
	doc, err := decodeRecords(key, []byte(body))
	if err != nil {
		return nil, err
	}
	doc.Revision = fields["revision"]
	if t, err := time.Parse(time.RFC3339Nano, fields["saved_at"]); err == nil {
		doc.SavedAt = t
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, doc *placement.Document) error {
	if err := validateKey(doc.Key); err != nil {
		return err
	}
	body, err := encodeRecords(doc)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		k := s.key(doc.Key)
		p.Del(ctx, k)
		p.HSet(ctx, k,
			"revision", doc.Revision,
			"saved_at", doc.SavedAt.UTC().Format(time.RFC3339Nano),
			"blocks", strconv.Itoa(doc.Len()),
			"body", string(body),
		)
		return nil
	})
	if err != nil {
		return storeError(BackendRedis, err, "save %s", doc.Key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key placement.Key) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return storeError(BackendRedis, err, "delete %s", key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
