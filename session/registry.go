package session

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/metrics"
)

// Factory builds the store for a browser id. The store's vault must be scoped
// to that id.
type Factory func(browserID string) *Store

// Registry keeps one Store per browser in memory. A store is created on the
// browser's first request and restored from durable storage with CheckAuth.
type Registry struct {
	newStore Factory
	metrics  *metrics.Recorder

	mu     sync.RWMutex
	stores map[string]*Store
}

func NewRegistry(newStore Factory, m *metrics.Recorder) *Registry {
	return &Registry{
		newStore: newStore,
		metrics:  m,
		stores:   make(map[string]*Store),
	}
}

// Get returns the browser's store, creating and checking it on first use.
// Callers block until that first CheckAuth is done.
func (r *Registry) Get(ctx context.Context, browserID string) *Store {
	r.mu.RLock()
	store, ok := r.stores[browserID]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		store, ok = r.stores[browserID]
		if !ok {
			store = r.newStore(browserID)
			r.stores[browserID] = store
			r.metrics.SetActiveSessions(len(r.stores))
		}
		r.mu.Unlock()
	}

	store.Touch()
	// a client disconnect must not wipe the stored credentials
	store.ensureChecked(context.WithoutCancel(ctx))
	return store
}

// Forget drops the in-memory store. The next request from that browser
// starts over from durable storage, like a full page load.
func (r *Registry) Forget(browserID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, browserID)
	r.metrics.SetActiveSessions(len(r.stores))
}

// Sweep drops stores idle for longer than idle and returns how many went.
// Durable storage is left alone.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, store := range r.stores {
		if store.LastSeen().Before(cutoff) {
			delete(r.stores, id)
			n++
		}
	}
	r.metrics.SetActiveSessions(len(r.stores))
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}
