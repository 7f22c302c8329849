package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/core"
)

type mockRepo struct {
	added []core.KnowledgeEntry
	err   error
}

func (m *mockRepo) DistinctTopics(ctx context.Context) ([]string, error) { return nil, nil }

func (m *mockRepo) FindByTopic(ctx context.Context, topic string) ([]core.KnowledgeEntry, error) {
	return m.added, nil
}

func (m *mockRepo) AddEntries(ctx context.Context, entries []core.KnowledgeEntry) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.added = append(m.added, entries...)
	return len(entries), nil
}

func (m *mockRepo) CountEntries(ctx context.Context) (int, error) { return len(m.added), nil }

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        []core.KnowledgeEntry
		errContains string
	}{
		{
			name: "yaml list",
			input: `
- topic: lease
  question: "What is a   lease?"
  context: A lease is a contract.
`,
			want: []core.KnowledgeEntry{{Topic: "lease", Question: "What is a lease?", Context: "A lease is a contract."}},
		},
		{
			name:  "json list with italian keys",
			input: `[{"argomento":"locazione","domanda":"Cos'è una locazione?","contesto":"Un contratto."}]`,
			want:  []core.KnowledgeEntry{{Topic: "locazione", Question: "Cos'è una locazione?", Context: "Un contratto."}},
		},
		{
			name: "entries document with html context",
			input: `
entries:
  - topic: rent
    question: When is rent due?
    context: "<div><p>Rent is due monthly.</p></div>"
`,
			want: []core.KnowledgeEntry{{Topic: "rent", Question: "When is rent due?", Context: "Rent is due monthly."}},
		},
		{
			name:        "missing context",
			input:       `[{"topic":"t","question":"q"}]`,
			errContains: "entry 1: missing context",
		},
		{
			name:        "empty list",
			input:       `[]`,
			errContains: "no knowledge entries found",
		},
		{
			name:        "garbage",
			input:       "::: not yaml",
			errContains: "failed to parse knowledge file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImporter_ImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- {topic: lease, question: What is a lease?, context: A contract.}
- {topic: rent, question: When is rent due?, context: Monthly.}
`), 0644))

	repo := &mockRepo{}
	n, err := NewImporter(repo).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "rent", repo.added[1].Topic)
}

func TestImporter_InvalidEntryStoresNothing(t *testing.T) {
	repo := &mockRepo{}
	_, err := NewImporter(repo).Import(context.Background(), strings.NewReader(`
- {topic: lease, question: What is a lease?, context: A contract.}
- {topic: rent, question: "", context: Monthly.}
`))
	assert.ErrorContains(t, err, "entry 2: missing question")
	assert.Empty(t, repo.added)
}

func TestImporter_StoreFailure(t *testing.T) {
	boom := errors.New("readonly database")
	_, err := NewImporter(&mockRepo{err: boom}).Import(context.Background(), strings.NewReader(`[{"topic":"t","question":"q","context":"c"}]`))
	assert.ErrorIs(t, err, boom)
}

func TestImporter_MissingFile(t *testing.T) {
	_, err := NewImporter(&mockRepo{}).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open knowledge file")
}
