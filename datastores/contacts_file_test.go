package datastores

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `[
  {
    "fullName": "Jane Doe",
    "phoneNumber": "081234567890",
    "email": "jane@example.com"
  },
  {
    "fullName": "John Smith",
    "phoneNumber": "+6285712345678",
    "email": "john@example.com"
  }
]`

func newContactsFile(t *testing.T, content string) *ContactsFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return NewContactsFile(path)
}

func readDocument(t *testing.T, s *ContactsFile) string {
	t.Helper()
	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return string(b)
}

func TestContactsFileLoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := newContactsFile(t, "").LoadAll(ctx)
		require.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsUnreadable(err))
	})

	for name, content := range map[string]string{
		"truncated":   `[{"fullName": "Jane"`,
		"object":      `{"fullName": "Jane"}`,
		"null entry":  `[null]`,
		"wrong types": `[{"fullName": 12}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newContactsFile(t, content).LoadAll(ctx)
			require.ErrorIs(t, err, ErrParse)
			assert.True(t, IsUnreadable(err))
		})
	}

	t.Run("null document", func(t *testing.T) {
		cs, err := newContactsFile(t, "null").LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, cs)
	})

	t.Run("legacy", func(t *testing.T) {
		cs, err := newContactsFile(t, legacyDocument).LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "John Smith", cs[1].FullName)
		assert.True(t, cs[1].ID.IsZero())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newContactsFile(t, legacyDocument).LoadAll(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestContactsFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, legacyDocument)

	cs, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(ctx, cs))
	assert.Equal(t, legacyDocument, readDocument(t, s))

	require.NoError(t, s.SaveAll(ctx, nil))
	assert.Equal(t, "[]", readDocument(t, s))
}

func TestContactsFileSaveAllError(t *testing.T) {
	s := NewContactsFile(filepath.Join(t.TempDir(), "missing-dir", "contacts.json"))
	err := s.SaveAll(context.Background(), sample())
	require.ErrorIs(t, err, ErrWrite)
	assert.False(t, IsUnreadable(err))
}

func TestContactsFileMutations(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, legacyDocument)
	before, err := s.LoadAll(ctx)
	require.NoError(t, err)

	c := Contact{FullName: "Budi", PhoneNumber: "081122334455", Email: "budi@example.com"}
	_, err = Add(ctx, s, c)
	require.NoError(t, err)
	after, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	last := after[2]
	assert.Equal(t, c.FullName, last.FullName)
	assert.Equal(t, c.PhoneNumber, last.PhoneNumber)
	assert.Equal(t, c.Email, last.Email)
	assert.Equal(t, before, after[:2])

	u := Contact{FullName: "Jane D.", PhoneNumber: "081234567891", Email: "jd@example.com"}
	_, err = Update(ctx, s, "0", u)
	require.NoError(t, err)
	after, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, after[0])
	assert.Equal(t, before[1], after[1])

	_, err = Update(ctx, s, last.ID.String(), u)
	require.NoError(t, err)
	after, err = s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.FullName, after[2].FullName)
	assert.Equal(t, last.ID, after[2].ID)

	_, err = Delete(ctx, s, "0")
	require.NoError(t, err)
	after, err = s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, before[1], after[0])

	_, err = Delete(ctx, s, "2")
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	unchanged, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, unchanged)
}

func TestContactsFileScenario(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, "[]")

	_, err := Add(ctx, s, Contact{FullName: "Jane", PhoneNumber: "081234567890", Email: "jane@x.com"})
	require.NoError(t, err)
	cs, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Contains(t, readDocument(t, s), `"fullName": "Jane"`)

	_, err = Delete(ctx, s, "0")
	require.NoError(t, err)
	assert.Equal(t, "[]", readDocument(t, s))
}

func TestContactsFileMutateMissingCreates(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, "")

	cs, err := Add(ctx, s, Contact{FullName: "Jane", PhoneNumber: "081234567890", Email: "jane@x.com"})
	require.NoError(t, err)
	require.Len(t, cs, 1)

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, cs, loaded)
}

func TestContactsFileMutateKeepsMalformed(t *testing.T) {
	ctx := context.Background()
	const malformed = `[{"fullName": `
	s := newContactsFile(t, malformed)

	_, err := Add(ctx, s, Contact{FullName: "Jane"})
	require.ErrorIs(t, err, ErrParse)
	assert.Equal(t, malformed, readDocument(t, s))
}

func TestContactsFileConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, "[]")

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Add(ctx, s, Contact{FullName: "contact " + strconv.Itoa(i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cs, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cs, n)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should be cleaned up")
}

func TestContactsFileKeepsMode(t *testing.T) {
	ctx := context.Background()
	s := newContactsFile(t, legacyDocument)
	require.NoError(t, os.Chmod(s.Path(), 0o640))

	_, err := Add(ctx, s, Contact{FullName: "Budi"})
	require.NoError(t, err)
	fi, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	fresh := NewContactsFile(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, fresh.SaveAll(ctx, sample()))
	fi, err = os.Stat(fresh.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestContactsFileForeignKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown keys dropped on rewrite", func(t *testing.T) {
		s := newContactsFile(t, `[{"fullName": "Jane", "phoneNumber": "081234567890", "email": "jane@x.com", "note": "vip"}]`)
		_, err := Add(ctx, s, Contact{FullName: "Budi"})
		require.NoError(t, err)
		assert.NotContains(t, readDocument(t, s), "vip")
	})

	t.Run("foreign id is malformed and left untouched", func(t *testing.T) {
		const doc = `[{"fullName": "Jane", "phoneNumber": "081234567890", "email": "jane@x.com", "id": "1"}]`
		s := newContactsFile(t, doc)
		_, err := s.LoadAll(ctx)
		require.ErrorIs(t, err, ErrParse)

		_, err = Add(ctx, s, Contact{FullName: "Budi"})
		require.ErrorIs(t, err, ErrParse)
		assert.Equal(t, doc, readDocument(t, s))
	})
}
