package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/collabpad/relay/internal/core"
	"github.com/collabpad/relay/internal/domain"
)

// Registry maps connection ids to their transport endpoints. The room
// store only tracks ids; anything that emits an event resolves the
// endpoint here.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]core.SignalConnection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]core.SignalConnection)}
}

func (r *Registry) Bind(connID domain.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = conn
	log.Info().Str("module", "app.registry").Str("conn", string(connID)).Msg("bound connection")
}

func (r *Registry) Unbind(connID domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
	log.Info().Str("module", "app.registry").Str("conn", string(connID)).Msg("unbound connection")
}

func (r *Registry) Get(connID domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	return conn, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
