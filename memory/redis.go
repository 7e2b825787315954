package memory

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis connection for a RedisLog.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// Namespace scopes this log's keys, typically the run ID.
	// All keys are deleted when the log is closed.
	Namespace string

	// TLS configuration for secure connections.
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration
}

// RedisLog implements Log on top of Redis using go-redis/v9.
//
// Entries are stored in a hash keyed by location, with a companion list
// tracking insertion order. The log is scoped to its namespace and removes
// its keys on Close, so a run's memory does not outlive the run.
type RedisLog struct {
	client    *redis.Client
	namespace string
}

// NewRedisLog creates a Redis-backed log with the given options.
func NewRedisLog(opts RedisOptions) (*RedisLog, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("redis log namespace cannot be empty")
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLog{
		client:    client,
		namespace: opts.Namespace,
	}, nil
}

func (l *RedisLog) entriesKey() string {
	return fmt.Sprintf("gridmind:%s:entries", l.namespace)
}

func (l *RedisLog) orderKey() string {
	return fmt.Sprintf("gridmind:%s:order", l.namespace)
}

// Record writes or overwrites the observation for key.
func (l *RedisLog) Record(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	entry := Entry{
		Key:        key,
		Value:      value,
		RecordedAt: time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	exists, err := l.client.HExists(ctx, l.entriesKey(), key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	pipe := l.client.TxPipeline()
	pipe.HSet(ctx, l.entriesKey(), key, data)
	if !exists {
		pipe.RPush(ctx, l.orderKey(), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}
	return nil
}

// Get retrieves the observation recorded for key.
func (l *RedisLog) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	data, err := l.client.HGet(ctx, l.entriesKey(), key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return "", fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return entry.Value, nil
}

// Keys returns all recorded keys in insertion order.
func (l *RedisLog) Keys(ctx context.Context) ([]string, error) {
	keys, err := l.client.LRange(ctx, l.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}
	return keys, nil
}

// Snapshot returns all entries in insertion order.
func (l *RedisLog) Snapshot(ctx context.Context) ([]Entry, error) {
	keys, err := l.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []Entry{}, nil
	}

	values, err := l.client.HMGet(ctx, l.entriesKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	entries := make([]Entry, 0, len(keys))
	for i, raw := range values {
		data, ok := raw.(string)
		if !ok {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry for %q: %w", keys[i], err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close deletes the log's keys and closes the Redis connection.
func (l *RedisLog) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.client.Del(ctx, l.entriesKey(), l.orderKey()).Err(); err != nil {
		_ = l.client.Close()
		return fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}
	return l.client.Close()
}
