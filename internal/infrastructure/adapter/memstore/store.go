// Package memstore keeps accounts, challenges and ledger entries in process
// memory. It backs the "memory" database driver used for development and tests.
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/bank-ledger/internal/domain/entity"
)

// state is an immutable snapshot once published. Writers mutate a private clone.
type state struct {
	accounts   map[uuid.UUID]*entity.Account
	byEmail    map[string]uuid.UUID
	challenges map[uuid.UUID]*entity.VerificationChallenge
	entries    []*entity.Transaction
}

func newState() *state {
	return &state{
		accounts:   make(map[uuid.UUID]*entity.Account),
		byEmail:    make(map[string]uuid.UUID),
		challenges: make(map[uuid.UUID]*entity.VerificationChallenge),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:   make(map[uuid.UUID]*entity.Account, len(s.accounts)),
		byEmail:    make(map[string]uuid.UUID, len(s.byEmail)),
		challenges: make(map[uuid.UUID]*entity.VerificationChallenge, len(s.challenges)),
		entries:    make([]*entity.Transaction, len(s.entries)),
	}
	for id, account := range s.accounts {
		c.accounts[id] = account.Clone()
	}
	for email, id := range s.byEmail {
		c.byEmail[email] = id
	}
	for id, challenge := range s.challenges {
		cp := *challenge
		c.challenges[id] = &cp
	}
	// ledger entries are never modified after insert, so the pointers can be shared
	copy(c.entries, s.entries)
	return c
}

// Store holds the committed state and serializes writers
type Store struct {
	mu        sync.RWMutex
	committed *state
	writer    chan struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		committed: newState(),
		writer:    make(chan struct{}, 1),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writer
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

func (s *Store) publish(next *state) {
	s.mu.Lock()
	s.committed = next
	s.mu.Unlock()
}

// view returns the state visible to ctx: the working copy of its unit of work,
// or the latest committed snapshot
func (s *Store) view(ctx context.Context) *state {
	if t := txFromContext(ctx); t != nil && t.store == s && !t.done {
		return t.working
	}
	return s.snapshot()
}

// update applies fn to the working copy of the unit of work in ctx. Outside a
// unit of work fn runs against a fresh copy that is published only if fn succeeds.
// fn must validate before it mutates so a failed call leaves the state intact.
func (s *Store) update(ctx context.Context, fn func(*state) error) error {
	if t := txFromContext(ctx); t != nil && t.store == s && !t.done {
		return fn(t.working)
	}

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	working := s.snapshot().clone()
	if err := fn(working); err != nil {
		return err
	}
	s.publish(working)
	return nil
}
