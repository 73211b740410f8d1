package store_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jacentio/eventease/store"
)

// --- Test Entity Types ---

// Note is a minimal entity.
type Note struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	Tag     int       `json:"tag"`
	Created time.Time `json:"created"`
	Done    bool      `json:"done"`
}

func (n Note) GetID() int { return n.ID }

// --- Key/Value Fakes ---

var errBackendDown = errors.New("backend down")

// fakeKV is an in-memory key/value service that counts calls and can fail on demand.
type fakeKV struct {
	mu       sync.Mutex
	data     map[string]string
	gets     map[string]int
	sets     map[string]int
	failGet  map[string]bool
	failSet  map[string]bool
	getDelay time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{
		data:    map[string]string{},
		gets:    map[string]int{},
		sets:    map[string]int{},
		failGet: map[string]bool{},
		failSet: map[string]bool{},
	}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	f.gets[key]++
	fail := f.failGet[key]
	delay := f.getDelay
	v, ok := f.data[key]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return "", false, errBackendDown
	}
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[key]++
	if f.failSet[key] {
		return errBackendDown
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeKV) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeKV) getCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[key]
}

func (f *fakeKV) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

func (f *fakeKV) setFailGet(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = fail
}

func (f *fakeKV) setFailSet(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet[key] = fail
}

// --- Store Helpers ---

func noteConfig() store.Config {
	return store.Config{
		CollectionKey: "notes",
		CounterKey:    "lastNoteId",
	}
}

func newNoteStore(kv store.KV) (*store.EntityStore[Note], error) {
	return store.New[Note](kv, noteConfig())
}

func stampNote(title string, tag int) func(id int) Note {
	return func(id int) Note {
		return Note{ID: id, Title: title, Tag: tag}
	}
}

// ctxKV wraps fakeKV and fails calls whose context has ended, the way network
// backends do. afterSet, when set, runs after each successful write.
type ctxKV struct {
	*fakeKV
	afterSet func(key string)
}

func (c *ctxKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, ok, err := c.fakeKV.Get(ctx, key)
	if err == nil {
		err = ctx.Err()
	}
	return v, ok, err
}

func (c *ctxKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.fakeKV.Set(ctx, key, value); err != nil {
		return err
	}
	if c.afterSet != nil {
		c.afterSet(key)
	}
	return nil
}
