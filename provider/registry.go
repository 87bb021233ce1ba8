package provider

import (
	"sort"
	"sync"

	"github.com/kvgate/kvgate/lib/store"
)

// --------------------------------------------------------------------------
// Actor Registry
// --------------------------------------------------------------------------

// Registry maps actor identities to their backing-store client handles. All
// methods are safe for concurrent use; the lock guards the map only, never a
// store call.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]store.IClient
}

// NewRegistry creates an empty actor registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]store.IClient),
	}
}

// Register installs the client handle for the given actor. A previously
// registered handle for the same actor is replaced and closed. Registrations
// are never evicted otherwise; they live for the lifetime of the registry.
func (r *Registry) Register(actor string, client store.IClient) {
	r.mu.Lock()
	old := r.clients[actor]
	r.clients[actor] = client
	r.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Warningf("failed to close replaced handle for actor %s: %v", actor, err)
		}
	}
}

// Resolve looks up the actor's client handle and opens a connection on it.
// An unknown actor yields a recoverable configuration error; a failed
// connection acquisition yields a store operation error. The store call
// happens outside the lock.
func (r *Registry) Resolve(actor string) (store.IConnection, error) {
	r.mu.RLock()
	client, ok := r.clients[actor]
	r.mu.RUnlock()

	if !ok {
		return nil, newConfigurationError("no store handle registered for actor %s", actor)
	}

	conn, err := client.Connect()
	if err != nil {
		return nil, &Error{
			Code:  ErrCStore,
			Msg:   "failed to acquire store connection for actor " + actor,
			Cause: err,
		}
	}
	return conn, nil
}

// Actors returns the registered actor identities in sorted order.
func (r *Registry) Actors() []string {
	r.mu.RLock()
	actors := make([]string, 0, len(r.clients))
	for actor := range r.clients {
		actors = append(actors, actor)
	}
	r.mu.RUnlock()

	sort.Strings(actors)
	return actors
}

// Close closes every registered handle and clears the registry. The first
// close error (if any) is returned; all handles are closed regardless.
func (r *Registry) Close() error {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[string]store.IClient)
	r.mu.Unlock()

	var firstErr error
	for actor, client := range clients {
		if err := client.Close(); err != nil {
			logger.Warningf("failed to close handle for actor %s: %v", actor, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
