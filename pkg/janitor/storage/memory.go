package storage

import (
	"context"
	"sort"
	"sync"

	"trainingportal-hq/janitor/pkg/janitor"
)

// MemoryStore implements the janitor.Store interface using an in-memory map.
// This implementation is intended for testing only and should not be used in
// production.
type MemoryStore struct {
	entities map[string]*janitor.Entity
	mu       sync.RWMutex

	// Injectable failures, for testing error paths.
	pingErr  error
	fetchErr error
	applyErr error
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[string]*janitor.Entity),
	}
}

// Put inserts or replaces an entity (for testing).
func (s *MemoryStore) Put(entity *janitor.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entityCopy := *entity
	s.entities[entity.ID] = &entityCopy
}

// FetchCandidates streams the entities of one category ordered by creation
// time ascending. An empty category streams every entity.
func (s *MemoryStore) FetchCandidates(ctx context.Context, category string) (<-chan *janitor.Entity, <-chan error, error) {
	s.mu.RLock()
	if err := s.fetchErr; err != nil {
		s.mu.RUnlock()
		return nil, nil, err
	}

	// Snapshot and sort for deterministic enumeration
	var candidates []*janitor.Entity
	for _, entity := range s.entities {
		if category == "" || entity.Category == category {
			entityCopy := *entity
			candidates = append(candidates, &entityCopy)
		}
	}
	s.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	entityCh := make(chan *janitor.Entity, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(entityCh)
		defer close(errCh)

		for _, entity := range candidates {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case entityCh <- entity:
			}
		}
	}()

	return entityCh, errCh, nil
}

// Get retrieves a single entity by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*janitor.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return nil, &janitor.NotFoundError{EntityID: id}
	}

	entityCopy := *entity
	return &entityCopy, nil
}

// Apply performs a cleanup action on the identified entity.
func (s *MemoryStore) Apply(ctx context.Context, entityID string, action janitor.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyErr; err != nil {
		return err
	}

	entity, ok := s.entities[entityID]
	if !ok {
		return &janitor.NotFoundError{EntityID: entityID}
	}

	switch action {
	case janitor.ActionDelete:
		delete(s.entities, entityID)
	case janitor.ActionArchive:
		entity.Status = "archived"
	case janitor.ActionAnonymize:
		entity.OwnerID = ""
	default:
		return janitor.NewExecutionError(entityID, action, nil)
	}

	return nil
}

// Count returns the number of entities in a category.
func (s *MemoryStore) Count(ctx context.Context, category string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, entity := range s.entities {
		if category == "" || entity.Category == category {
			count++
		}
	}

	return count, nil
}

// Ping verifies store "connectivity".
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

// Close releases the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities = make(map[string]*janitor.Entity)
	return nil
}

// Size returns the number of entities in the store (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entities)
}

// FailPing injects an error returned by Ping (for testing).
// Pass nil to clear.
func (s *MemoryStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// FailFetch injects an error returned by FetchCandidates (for testing).
// Pass nil to clear.
func (s *MemoryStore) FailFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailApply injects an error returned by Apply (for testing).
// Pass nil to clear.
func (s *MemoryStore) FailApply(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyErr = err
}
