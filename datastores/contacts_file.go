package datastores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ContactsFile implements [ContactsStore] over a single JSON document.
type ContactsFile struct {
	mu   sync.Mutex
	path string
}

var _ ContactsStore = (*ContactsFile)(nil)

func NewContactsFile(path string) *ContactsFile {
	return &ContactsFile{path: path}
}

func (s *ContactsFile) Path() string { return s.path }

func (s *ContactsFile) LoadAll(ctx context.Context) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load()
}

func (s *ContactsFile) SaveAll(ctx context.Context, cs []Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cs)
}

func (s *ContactsFile) Mutate(ctx context.Context, fn func([]Contact) ([]Contact, error)) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, err := s.load()
	if errors.Is(err, ErrNotFound) {
		cs, err = []Contact{}, nil
	}
	if err != nil {
		return nil, err
	}
	cs, err = fn(cs)
	if err != nil {
		return nil, err
	}
	return cs, s.save(cs)
}

func (s *ContactsFile) load() ([]Contact, error) {
	b, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return decodeContacts(b)
}

// save writes to a sibling temporary file then renames it over the document.
func (s *ContactsFile) save(cs []Contact) error {
	b, err := encodeContacts(cs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer os.Remove(f.Name()) //nolint: errcheck // gone after a successful rename

	_, err = f.Write(b)
	err = errors.Join(err, f.Chmod(s.mode()), f.Close())
	if err == nil {
		err = os.Rename(f.Name(), s.path)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// mode returns the permissions of the current document, or rw-r--r-- for a new one.
func (s *ContactsFile) mode() fs.FileMode {
	if fi, err := os.Stat(s.path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o644 //nolint: mnd // rw-r--r--
}

func decodeContacts(b []byte) ([]Contact, error) {
	var raw []*Contact
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if slices.Contains(raw, nil) {
		return nil, fmt.Errorf("%w: null contact", ErrParse)
	}
	cs := make([]Contact, 0, len(raw))
	for _, c := range raw {
		cs = append(cs, *c)
	}
	return cs, nil
}

// encodeContacts always produces an array, never null, indented by two spaces.
func encodeContacts(cs []Contact) ([]byte, error) {
	if cs == nil {
		cs = []Contact{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cs); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
