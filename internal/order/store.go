package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore keeps drafts between requests of the console backend
type DraftStore interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
}

// MemoryDraftStore keeps drafts in process, expiring them after ttl
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[string]memoryEntry
	now    func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		drafts: make(map[string]memoryEntry),
		now:    time.Now,
	}
}

func (s *MemoryDraftStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	entry, ok := s.drafts[id]
	if ok && s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.drafts, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrDraftNotFound
	}

	// each caller gets its own copy
	var d Draft
	if err := json.Unmarshal(entry.data, &d); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &d, nil
}

func (s *MemoryDraftStore) Save(_ context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	s.mu.Lock()
	s.drafts[d.ID] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}

// RedisDraftStore keeps drafts as JSON under order:draft:<id> with a TTL
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisDraftStore) getKey(id string) string {
	return fmt.Sprintf("order:draft:%s", id)
}

func (r *RedisDraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	data, err := r.client.Get(ctx, r.getKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("decoding draft: %w", err)
	}
	return &d, nil
}

func (r *RedisDraftStore) Save(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.getKey(d.ID), data, r.ttl).Err()
}

func (r *RedisDraftStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.getKey(id)).Err()
}
