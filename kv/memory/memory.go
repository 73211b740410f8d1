// Package memory provides an in-process key/value service.
//
// It backs the "memory" backend and the tests of packages built on the store.
// Nothing survives the process.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInjected is returned for keys marked with FailGet or FailSet.
var ErrInjected = errors.New("eventease: injected key/value failure")

// KV is a mutex-guarded string map implementing store.KV.
type KV struct {
	mu      sync.RWMutex
	data    map[string]string
	failGet map[string]bool
	failSet map[string]bool
}

// New creates an empty KV.
func New() *KV {
	return &KV{
		data:    make(map[string]string),
		failGet: make(map[string]bool),
		failSet: make(map[string]bool),
	}
}

// Get returns the value stored under key.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.failGet[key] {
		return "", false, ErrInjected
	}
	v, ok := k.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failSet[key] {
		return ErrInjected
	}
	k.data[key] = value
	return nil
}

// Raw returns the stored value without failure injection.
func (k *KV) Raw(key string) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.data[key]
	return v, ok
}

// Put stores a value without failure injection.
func (k *KV) Put(key, value string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
}

// Keys returns the stored keys in sorted order.
func (k *KV) Keys() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	keys := make([]string, 0, len(k.data))
	for key := range k.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (k *KV) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.data)
}

// FailGet makes Get on key return ErrInjected while fail is true.
func (k *KV) FailGet(key string, fail bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.failGet[key] = fail
}

// FailSet makes Set on key return ErrInjected while fail is true.
func (k *KV) FailSet(key string, fail bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.failSet[key] = fail
}
