package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	list      []string
	isList    bool
	expiresAt time.Time
}

// MemoryCacheRepository - кеш в памяти процесса для CACHE_DRIVER=memory и
// тестов. Семантика повторяет Redis в объёме, который нужен сервисам.
type MemoryCacheRepository struct {
	mu    sync.Mutex
	items map[string]*memoryEntry
	now   func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{
		items: make(map[string]*memoryEntry),
		now:   time.Now,
	}
}

// lookup вызывается под mu; истёкшие ключи удаляются лениво.
func (r *MemoryCacheRepository) lookup(key string) (*memoryEntry, bool) {
	e, ok := r.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		delete(r.items, key)
		return nil, false
	}
	return e, true
}

func (r *MemoryCacheRepository) expiry(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return r.now().Add(expiration)
}

func (r *MemoryCacheRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	if e.isList {
		return "", fmt.Errorf("WRONGTYPE: key %q holds a list", key)
	}
	return e.value, nil
}

func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = &memoryEntry{value: toString(value), expiresAt: r.expiry(expiration)}
	return nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.items, k)
	}
	return nil
}

func (r *MemoryCacheRepository) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lookup(key); ok {
		return false, nil
	}
	r.items[key] = &memoryEntry{value: toString(value), expiresAt: r.expiry(expiration)}
	return true, nil
}

func (r *MemoryCacheRepository) RPush(_ context.Context, key string, values ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lookup(key)
	if !ok {
		e = &memoryEntry{isList: true}
		r.items[key] = e
	}
	if !e.isList {
		return fmt.Errorf("WRONGTYPE: key %q holds a string", key)
	}
	e.list = append(e.list, values...)
	return nil
}

// LRange поддерживает отрицательные индексы, как Redis.
func (r *MemoryCacheRepository) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.lookup(key)
	if !ok {
		return []string{}, nil
	}
	n := int64(len(e.list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, e.list[start:stop+1])
	return out, nil
}

func (r *MemoryCacheRepository) Ping(context.Context) error {
	return nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
