package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

// memMatcher is an in-memory stand-in for the record store.
type memMatcher struct {
	records []store.IndexRecord
	err     error
}

func (m *memMatcher) Match(term string, limit int) ([]store.IndexRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []store.IndexRecord
	for _, r := range m.records {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(r.Keywords), term) ||
			strings.Contains(strings.ToLower(r.Description), term) {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestRegistry(t *testing.T, m search.Matcher) *Registry {
	t.Helper()
	return NewRegistry(
		NewSearchTool(search.New(m)),
		NewFileReader(t.TempDir()),
	)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry(t, &memMatcher{})

	out := r.Dispatch(Call{Name: "bogus", Arguments: json.RawMessage(`{}`)})

	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "bogus")
}

func TestDispatchSearchJoinsContent(t *testing.T) {
	m := &memMatcher{records: []store.IndexRecord{
		{Path: "a", Content: "map-a", Keywords: "alpha", Description: "first"},
		{Path: "b", Content: "map-b", Keywords: "alpha beta", Description: "second"},
	}}
	r := newTestRegistry(t, m)

	out := r.Dispatch(Call{
		Name:      SearchToolName,
		Arguments: json.RawMessage(`{"query":"alpha"}`),
	})

	// Equal scores keep retrieval order, so the join is deterministic.
	assert.Equal(t, "map-a\nmap-b", out)
}

func TestDispatchSearchNoMatches(t *testing.T) {
	r := newTestRegistry(t, &memMatcher{})

	out := r.Dispatch(Call{
		Name:      SearchToolName,
		Arguments: json.RawMessage(`{"query":"nothing"}`),
	})

	assert.Equal(t, "", out)
}

func TestDispatchSearchStoreFailure(t *testing.T) {
	r := newTestRegistry(t, &memMatcher{err: os.ErrDeadlineExceeded})

	out := r.Dispatch(Call{
		Name:      SearchToolName,
		Arguments: json.RawMessage(`{"query":"alpha"}`),
	})

	// The lookup failure surfaces as a sentinel string, never an error
	// the conversation can't carry.
	assert.True(t, strings.HasPrefix(out, "Error:"), "got %q", out)
}

func TestDispatchBadArguments(t *testing.T) {
	r := newTestRegistry(t, &memMatcher{})

	out := r.Dispatch(Call{
		Name:      SearchToolName,
		Arguments: json.RawMessage(`{"query":`),
	})

	assert.True(t, strings.HasPrefix(out, "Error:"), "got %q", out)
	assert.Contains(t, out, SearchToolName)
}

func TestFileReaderMissingFile(t *testing.T) {
	reader := NewFileReader(t.TempDir())

	out, err := reader.Execute("does/not/exist.go")

	require.NoError(t, err)
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "does/not/exist.go")
}

func TestFileReaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.go"), []byte("package hello\n"), 0o644))

	r := NewRegistry(NewSearchTool(search.New(&memMatcher{})), NewFileReader(dir))

	out := r.Dispatch(Call{
		Name:      FileReaderToolName,
		Arguments: json.RawMessage(`{"target_file":"hello.go"}`),
	})

	assert.Equal(t, "package hello\n", out)
}

func TestSchemasDeclareBothTools(t *testing.T) {
	r := newTestRegistry(t, &memMatcher{})

	schemas := r.Schemas()
	require.Len(t, schemas, 2)

	names := []string{schemas[0].Function.Name, schemas[1].Function.Name}
	assert.ElementsMatch(t, []string{SearchToolName, FileReaderToolName}, names)
	for _, s := range schemas {
		assert.Equal(t, "function", string(s.Type))
	}
}
