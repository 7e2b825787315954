package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Common errors returned by memory operations.
var (
	// ErrNotFound is returned when a requested key does not exist in the log.
	ErrNotFound = errors.New("memory: key not found")

	// ErrInvalidKey is returned when a key is empty or otherwise invalid.
	ErrInvalidKey = errors.New("memory: invalid key")

	// ErrStorageFailed is returned when the underlying storage backend fails.
	ErrStorageFailed = errors.New("memory: storage operation failed")
)

// Entry is a single recorded observation.
type Entry struct {
	// Key is the location key the observation was recorded under,
	// e.g. "(1, 1)".
	Key string `json:"key"`

	// Value is the observation text.
	Value string `json:"value"`

	// RecordedAt is the timestamp of the most recent write for this key.
	RecordedAt time.Time `json:"recorded_at"`
}

// Log is the agent's map memory for one run.
//
// Implementations must preserve insertion order across overwrites: a key keeps
// the position it had when first recorded, and a later Record for the same key
// replaces the value without duplicating the key.
type Log interface {
	// Record writes or overwrites the observation for key.
	// Returns ErrInvalidKey if the key is empty.
	Record(ctx context.Context, key, value string) error

	// Get retrieves the observation recorded for key.
	// Returns ErrNotFound if the key has never been recorded.
	Get(ctx context.Context, key string) (string, error)

	// Keys returns all recorded keys in insertion order.
	Keys(ctx context.Context) ([]string, error)

	// Snapshot returns all entries in insertion order.
	Snapshot(ctx context.Context) ([]Entry, error)

	// Close releases any resources held by the log.
	Close() error
}

// InMemoryLog is the default Log implementation.
// It is safe for concurrent use, although the agent loop itself is
// single-threaded.
type InMemoryLog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

// NewInMemoryLog creates an empty in-process log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{
		entries: make(map[string]Entry),
	}
}

// Record writes or overwrites the observation for key.
func (l *InMemoryLog) Record(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidKey
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[key]; !exists {
		l.order = append(l.order, key)
	}
	l.entries[key] = Entry{
		Key:        key,
		Value:      value,
		RecordedAt: time.Now(),
	}
	return nil
}

// Get retrieves the observation recorded for key.
func (l *InMemoryLog) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key == "" {
		return "", ErrInvalidKey
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return entry.Value, nil
}

// Keys returns all recorded keys in insertion order.
func (l *InMemoryLog) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, len(l.order))
	copy(keys, l.order)
	return keys, nil
}

// Snapshot returns all entries in insertion order.
func (l *InMemoryLog) Snapshot(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, 0, len(l.order))
	for _, key := range l.order {
		entries = append(entries, l.entries[key])
	}
	return entries, nil
}

// Close is a no-op for the in-process log.
func (l *InMemoryLog) Close() error {
	return nil
}
