package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/daycare-backend/internal/config"
	"github.com/stemsi/daycare-backend/internal/model"
)

type memQueue struct {
	mu    sync.Mutex
	items map[string][]string
}

func newMemQueue() *memQueue {
	return &memQueue{items: map[string][]string{}}
}

func (q *memQueue) push(key string, e model.ActivityEntry) {
	raw, _ := json.Marshal(e)
	q.mu.Lock()
	q.items[key] = append(q.items[key], string(raw))
	q.mu.Unlock()
}

func (q *memQueue) size(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items[key])
}

func (q *memQueue) BLPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	q.mu.Lock()
	for _, k := range keys {
		if list := q.items[k]; len(list) > 0 {
			q.items[k] = list[1:]
			q.mu.Unlock()
			return redis.NewStringSliceResult([]string{k, list[0]}, nil)
		}
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return redis.NewStringSliceResult(nil, ctx.Err())
	case <-time.After(5 * time.Millisecond):
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
}

func (q *memQueue) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range values {
		switch raw := v.(type) {
		case []byte:
			q.items[key] = append(q.items[key], string(raw))
		case string:
			q.items[key] = append(q.items[key], raw)
		}
	}
	return redis.NewIntResult(int64(len(q.items[key])), nil)
}

type memStore struct {
	mu       sync.Mutex
	saved    []model.ActivityEntry
	batchErr error
	// rejects makes single inserts of these IDs fail.
	rejects map[string]bool
}

func (s *memStore) InsertBatch(_ context.Context, entries []model.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchErr != nil {
		return s.batchErr
	}
	s.saved = append(s.saved, entries...)
	return nil
}

func (s *memStore) Insert(_ context.Context, e model.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rejects[e.ID] {
		return errors.New("insert rejected")
	}
	s.saved = append(s.saved, e)
	return nil
}

func (s *memStore) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.saved))
	for _, e := range s.saved {
		out = append(out, e.ID)
	}
	return out
}

func TestActivityWorker_FlushesOnShutdown(t *testing.T) {
	queue := newMemQueue()
	key := config.WorkerKey.PersistActivityQueue
	for _, id := range []string{"a", "b", "c"} {
		queue.push(key, model.ActivityEntry{ID: id, Entity: "student", Action: model.ActionCreated})
	}
	store := &memStore{}
	w := NewActivityWorker(queue, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return queue.size(key) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.Equal(t, []string{"a", "b", "c"}, store.ids())
}

func TestActivityWorker_FallbackRequeuesFailedEntries(t *testing.T) {
	queue := newMemQueue()
	store := &memStore{
		batchErr: errors.New("deadlock detected"),
		rejects:  map[string]bool{"b": true},
	}
	w := NewActivityWorker(queue, store, zerolog.Nop())

	w.flushSafe(context.Background(), []model.ActivityEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	assert.Equal(t, []string{"a", "c"}, store.ids())
	require.Equal(t, 1, queue.size(config.WorkerKey.PersistActivityQueue))

	var requeued model.ActivityEntry
	require.NoError(t, json.Unmarshal([]byte(queue.items[config.WorkerKey.PersistActivityQueue][0]), &requeued))
	assert.Equal(t, "b", requeued.ID)
}

func TestActivityWorker_SkipsMalformedPayload(t *testing.T) {
	queue := newMemQueue()
	key := config.WorkerKey.PersistActivityQueue
	queue.RPush(context.Background(), key, "{not json")
	queue.push(key, model.ActivityEntry{ID: "ok"})
	store := &memStore{}
	w := NewActivityWorker(queue, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return queue.size(key) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []string{"ok"}, store.ids())
}
