package datastores

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Contact is one record of the contact book. Its position in the collection
// is its identifier; ID is only set for contacts created by [AddContact].
type Contact struct {
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	ID          ContactID `json:"id,omitzero"`
}

// ContactsStore loads and persists the whole contact collection.
type ContactsStore interface {
	LoadAll(ctx context.Context) ([]Contact, error)
	SaveAll(ctx context.Context, cs []Contact) error

	// Mutate runs one load, fn, save cycle. Implementations serialize
	// cycles so that none of them observes a stale collection.
	Mutate(ctx context.Context, fn func([]Contact) ([]Contact, error)) ([]Contact, error)
}

var (
	ErrNotFound        = errors.New("store: contacts not found")
	ErrRead            = errors.New("store: could not read contacts")
	ErrParse           = errors.New("store: malformed contacts")
	ErrWrite           = errors.New("store: could not write contacts")
	ErrIndexOutOfRange = errors.New("store: index out of range")
	ErrObjectNotFound  = errors.New("store: object not found")
)

// IsUnreadable reports whether err means the collection could not be loaded,
// which callers present as "no contacts available".
func IsUnreadable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrRead) || errors.Is(err, ErrParse)
}

// AddContact appends c and assigns it an ID when it has none.
func AddContact(cs []Contact, c Contact) []Contact {
	if c.ID.IsZero() {
		c.ID = NewContactID()
	}
	return append(slices.Clip(cs), c)
}

// UpdateContact replaces the contact at index i. The ID of the replaced
// contact is carried over when c has none.
func UpdateContact(cs []Contact, i int, c Contact) ([]Contact, error) {
	if err := checkIndex(cs, i); err != nil {
		return nil, err
	}
	if c.ID.IsZero() {
		c.ID = cs[i].ID
	}
	cs = slices.Clone(cs)
	cs[i] = c
	return cs, nil
}

// DeleteContact removes the contact at index i, shifting the following ones down.
func DeleteContact(cs []Contact, i int) ([]Contact, error) {
	if err := checkIndex(cs, i); err != nil {
		return nil, err
	}
	return slices.Delete(slices.Clone(cs), i, i+1), nil
}

func checkIndex(cs []Contact, i int) error {
	if i < 0 || i >= len(cs) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(cs))
	}
	return nil
}

// Resolve returns the index designated by ref, which is either a decimal
// index or the text form of a [ContactID].
func Resolve(cs []Contact, ref string) (int, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		return i, checkIndex(cs, i)
	}
	id, err := ParseContactID(ref)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrObjectNotFound, ref, err)
	}
	i := slices.IndexFunc(cs, func(c Contact) bool { return c.ID == id })
	if i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrObjectNotFound, ref)
	}
	return i, nil
}

// Add appends c to the collection held by s and returns the new collection.
func Add(ctx context.Context, s ContactsStore, c Contact) ([]Contact, error) {
	return s.Mutate(ctx, func(cs []Contact) ([]Contact, error) {
		return AddContact(cs, c), nil
	})
}

// Update replaces the contact designated by ref.
func Update(ctx context.Context, s ContactsStore, ref string, c Contact) ([]Contact, error) {
	return s.Mutate(ctx, func(cs []Contact) ([]Contact, error) {
		i, err := Resolve(cs, ref)
		if err != nil {
			return nil, err
		}
		return UpdateContact(cs, i, c)
	})
}

// Delete removes the contact designated by ref.
func Delete(ctx context.Context, s ContactsStore, ref string) ([]Contact, error) {
	return s.Mutate(ctx, func(cs []Contact) ([]Contact, error) {
		i, err := Resolve(cs, ref)
		if err != nil {
			return nil, err
		}
		return DeleteContact(cs, i)
	})
}

// Get returns the contact designated by ref and its index.
func Get(ctx context.Context, s ContactsStore, ref string) (Contact, int, error) {
	cs, err := s.LoadAll(ctx)
	if err != nil {
		return Contact{}, 0, err
	}
	i, err := Resolve(cs, ref)
	if err != nil {
		return Contact{}, 0, err
	}
	return cs[i], i, nil
}
