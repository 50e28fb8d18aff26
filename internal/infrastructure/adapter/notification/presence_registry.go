package notification

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/notification"
)

// PresenceRegistry tracks which connections belong to which account
type PresenceRegistry struct {
	mu        sync.RWMutex
	byAccount map[uuid.UUID]map[string]struct{}
	byConn    map[string]uuid.UUID
}

var _ notification.PresenceRegistry = (*PresenceRegistry)(nil)

// NewPresenceRegistry creates an empty registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byAccount: make(map[uuid.UUID]map[string]struct{}),
		byConn:    make(map[string]uuid.UUID),
	}
}

// Register associates connID with accountID. Re-registering a connection moves it.
func (r *PresenceRegistry) Register(accountID uuid.UUID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(connID)
	conns, ok := r.byAccount[accountID]
	if !ok {
		conns = make(map[string]struct{})
		r.byAccount[accountID] = conns
	}
	conns[connID] = struct{}{}
	r.byConn[connID] = accountID
}

// Unregister forgets connID. Unknown connections are ignored.
func (r *PresenceRegistry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(connID)
}

// Connections returns the live connections of accountID in a stable order
func (r *PresenceRegistry) Connections(accountID uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byAccount[accountID]
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *PresenceRegistry) removeLocked(connID string) {
	accountID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if conns := r.byAccount[accountID]; conns != nil {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byAccount, accountID)
		}
	}
}
