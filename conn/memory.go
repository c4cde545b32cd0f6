package conn

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process binding [Store] for embedded single-instance
// use and tests. Expiry is lazy: expired bindings are dropped when a reader
// touches them.
type MemoryStore struct {
	mu     sync.Mutex
	byConn map[string]Binding
	byUser map[string]map[string]struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byConn: make(map[string]Binding),
		byUser: make(map[string]map[string]struct{}),
	}
}

// Put stores a copy of the binding, overwriting any previous binding for the
// same connection ID. The ttl argument is ignored; expiry follows ExpiresAt.
func (s *MemoryStore) Put(ctx context.Context, b *Binding, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byConn[b.ConnectionID]; ok && prev.UserID != b.UserID {
		s.dropIndexLocked(prev.UserID, b.ConnectionID)
	}

	s.byConn[b.ConnectionID] = *b
	set, ok := s.byUser[b.UserID]
	if !ok {
		set = make(map[string]struct{})
		s.byUser[b.UserID] = set
	}
	set[b.ConnectionID] = struct{}{}

	return nil
}

// Delete removes a binding. Deleting a connection ID that is not bound is
// not an error.
func (s *MemoryStore) Delete(ctx context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byConn[connectionID]
	if !ok {
		return nil
	}
	delete(s.byConn, connectionID)
	s.dropIndexLocked(b.UserID, connectionID)

	return nil
}

// Get retrieves a binding by connection ID, dropping it when expired.
func (s *MemoryStore) Get(ctx context.Context, connectionID string) (*Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byConn[connectionID]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().Unix() >= b.ExpiresAt {
		delete(s.byConn, connectionID)
		s.dropIndexLocked(b.UserID, connectionID)
		return nil, ErrNotFound
	}

	out := b
	return &out, nil
}

// ByUser returns the live bindings for a user, dropping expired ones.
func (s *MemoryStore) ByUser(ctx context.Context, userID string) ([]*Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.byUser[userID]
	if !ok {
		return []*Binding{}, nil
	}

	nowUnix := time.Now().Unix()
	bindings := make([]*Binding, 0, len(set))
	for connectionID := range set {
		b, ok := s.byConn[connectionID]
		if !ok {
			delete(set, connectionID)
			continue
		}
		if nowUnix >= b.ExpiresAt {
			delete(s.byConn, connectionID)
			delete(set, connectionID)
			continue
		}
		out := b
		bindings = append(bindings, &out)
	}
	if len(set) == 0 {
		delete(s.byUser, userID)
	}

	return bindings, nil
}

func (s *MemoryStore) dropIndexLocked(userID, connectionID string) {
	set, ok := s.byUser[userID]
	if !ok {
		return
	}
	delete(set, connectionID)
	if len(set) == 0 {
		delete(s.byUser, userID)
	}
}
