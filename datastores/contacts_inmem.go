package datastores

import (
	"context"
	"slices"
	"sync"
)

// ContactsInmem implements [ContactsStore] in memory.
// Its zero value behaves like a missing document.
type ContactsInmem struct {
	mu       sync.Mutex
	contacts []Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem(cs ...Contact) *ContactsInmem {
	return &ContactsInmem{contacts: append([]Contact{}, cs...)}
}

func (s *ContactsInmem) LoadAll(ctx context.Context) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contacts == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(s.contacts), nil
}

func (s *ContactsInmem) SaveAll(ctx context.Context, cs []Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append([]Contact{}, cs...)
	return nil
}

func (s *ContactsInmem) Mutate(ctx context.Context, fn func([]Contact) ([]Contact, error)) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := fn(append([]Contact{}, s.contacts...))
	if err != nil {
		return nil, err
	}
	s.contacts = append([]Contact{}, cs...)
	return slices.Clone(s.contacts), nil
}
