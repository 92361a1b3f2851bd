// Package registry tracks which users currently have a live connection.
package registry

import (
	"sync"
)

// Conn is the transport handle the registry holds for a connected user.
// Send must enqueue without blocking; a full queue or dead transport is
// reported as an error and left to the caller to log.
type Conn interface {
	Send(v any) error
}

// Registry maps a user identity to at most one live connection. A second
// connect for the same identity supersedes the first; the superseded
// handle is closed by the transport, not by the registry.
//
// Backed by sync.Map so register/unregister/lookup are atomic per
// identity without one global lock serializing every user.
type Registry struct {
	conns sync.Map // uint64 -> Conn
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register points the identity's slot at conn, superseding any previous
// handle.
func (r *Registry) Register(userID uint64, conn Conn) {
	r.conns.Store(userID, conn)
}

// Unregister removes the mapping only if it still points at conn. A close
// event from an already-superseded connection firing late must not evict
// the newer one.
func (r *Registry) Unregister(userID uint64, conn Conn) {
	r.conns.CompareAndDelete(userID, conn)
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID uint64) (Conn, bool) {
	v, ok := r.conns.Load(userID)
	if !ok {
		return nil, false
	}
	return v.(Conn), true
}
