package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards against running the same file twice at once
type Locker interface {
	// Acquire reports false when key is already held
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
	// Refresh extends a held key's expiry. It returns ErrLockLost when the
	// key expired or was taken over since Acquire.
	Refresh(ctx context.Context, key string) error
}

// ErrLockLost means another holder may now be importing the same file
var ErrLockLost = errors.New("import lock lost")

// MemoryLock guards runs within one process
type MemoryLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[string]struct{})}
}

func (l *MemoryLock) Acquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = struct{}{}
	return true, nil
}

func (l *MemoryLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}

// Refresh only checks the key is still held; in-process keys never expire
func (l *MemoryLock) Refresh(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; !ok {
		return ErrLockLost
	}
	return nil
}

// releaseScript deletes the key only if this holder still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript resets the expiry only if this holder still owns the key
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLock guards runs across several console-backend replicas. The TTL
// frees the key if a holder dies mid-run; live holders keep it with Refresh.
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client: client,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

func (l *RedisLock) getKey(key string) string {
	return fmt.Sprintf("import:lock:%s", key)
}

func (l *RedisLock) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.getKey(key), token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquiring import lock: %w", err)
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{l.getKey(key)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("releasing import lock: %w", err)
	}
	return nil
}

func (l *RedisLock) Refresh(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	l.mu.Unlock()
	if !ok {
		return ErrLockLost
	}

	n, err := refreshScript.Run(ctx, l.client, []string{l.getKey(key)}, token, l.ttl.Milliseconds()).Int64()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("refreshing import lock: %w", err)
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}
