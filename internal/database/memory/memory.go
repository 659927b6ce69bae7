package memory

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/ndanilin/golinks/internal/database"
)

type entry struct {
	value   string
	expires time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// KV is an in-process database.KV used by tests and single-process
// setups that run without a Redis.
type KV struct {
	mu      sync.Mutex
	entries map[string]entry
}

func New() *KV {
	return &KV{entries: make(map[string]entry)}
}

func (kv *KV) Get(_ context.Context, key string) (string, error) {
	const op = "database.memory.KV.Get"

	kv.mu.Lock()
	defer kv.mu.Unlock()

	e, ok := kv.entries[key]
	if !ok || e.expired(time.Now()) {
		delete(kv.entries, key)
		return "", fmt.Errorf("%s: %w", op, database.ErrKeyNotFound)
	}

	return e.value, nil
}

func (kv *KV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.entries[key] = entry{value: value, expires: expiry(ttl)}

	return nil
}

func (kv *KV) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if e, ok := kv.entries[key]; ok && !e.expired(time.Now()) {
		return false, nil
	}
	kv.entries[key] = entry{value: value, expires: expiry(ttl)}

	return true, nil
}

func (kv *KV) Incr(_ context.Context, key string) (int64, error) {
	const op = "database.memory.KV.Incr"

	kv.mu.Lock()
	defer kv.mu.Unlock()

	e, ok := kv.entries[key]
	if !ok || e.expired(time.Now()) {
		kv.entries[key] = entry{value: "1"}
		return 1, nil
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: value is not an integer: %w", op, err)
	}

	n++
	e.value = strconv.FormatInt(n, 10)
	kv.entries[key] = e

	return n, nil
}

func (kv *KV) Expire(_ context.Context, key string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if e, ok := kv.entries[key]; ok && !e.expired(time.Now()) {
		e.expires = expiry(ttl)
		kv.entries[key] = e
	}

	return nil
}

func (kv *KV) Del(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.entries, key)

	return nil
}

func (kv *KV) Keys(_ context.Context, pattern string) ([]string, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	now := time.Now()
	var keys []string
	for key, e := range kv.entries {
		if e.expired(now) {
			delete(kv.entries, key)
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
