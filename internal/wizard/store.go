package wizard

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrNotDraftOwner = errors.New("draft belongs to another user")
)

// Store holds live drafts in memory. Drafts are ephemeral by design: they
// exist only for the duration of a wizard session and are gone on restart,
// with the listing row as the sole persisted artifact.
type Store struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[uuid.UUID]Draft)}
}

// Create starts a new draft owned by ownerID.
func (s *Store) Create(ownerID string) Draft {
	d := NewDraft(ownerID)
	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()
	return d
}

// Get returns the draft if it exists and belongs to ownerID.
func (s *Store) Get(id uuid.UUID, ownerID string) (Draft, error) {
	s.mu.RLock()
	d, ok := s.drafts[id]
	s.mu.RUnlock()
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if d.OwnerID != ownerID {
		return Draft{}, ErrNotDraftOwner
	}
	return d, nil
}

// Update applies fn to the current draft value under the store lock and
// keeps the result. fn returning an error leaves the stored draft untouched.
func (s *Store) Update(id uuid.UUID, ownerID string, fn func(Draft) (Draft, error)) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if d.OwnerID != ownerID {
		return Draft{}, ErrNotDraftOwner
	}

	next, err := fn(d)
	if err != nil {
		return d, err
	}
	s.drafts[id] = next
	return next, nil
}

// MergeAIDescription stores a generated description if the draft still
// exists and has not produced or received one in the meantime. Results for
// abandoned drafts are dropped silently.
func (s *Store) MergeAIDescription(id uuid.UUID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Stage == StageSubmitted || d.Form.AIDescription != "" {
		return false
	}
	next, err := d.WithAIDescription(text)
	if err != nil {
		return false
	}
	s.drafts[id] = next
	return true
}

// Replace stores the result of work done outside the store lock, such as a
// finished submission pipeline. The draft must already exist.
func (s *Store) Replace(d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[d.ID]; !ok {
		return ErrDraftNotFound
	}
	s.drafts[d.ID] = d
	return nil
}

// Delete discards a draft.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}
