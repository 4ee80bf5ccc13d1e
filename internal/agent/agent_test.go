package agent

import (
	"context"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
	"github.com/Carlosagamez2021/AI-Indexing/internal/tools"
)

// scriptedLLM replays a fixed sequence of assistant messages and records
// every request it receives.
type scriptedLLM struct {
	replies  []llm.Message
	requests [][]llm.Message
}

func (s *scriptedLLM) GenerateWithTools(ctx context.Context, messages []llm.Message, _ []openai.Tool) (llm.Message, error) {
	s.requests = append(s.requests, append([]llm.Message(nil), messages...))
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

type memMatcher struct {
	records []store.IndexRecord
}

func (m *memMatcher) Match(term string, limit int) ([]store.IndexRecord, error) {
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

func newTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	m := &memMatcher{records: []store.IndexRecord{
		{Path: "db.go", Content: "map of db.go", Keywords: "database", Description: "db pool"},
	}}
	return tools.NewRegistry(
		tools.NewSearchTool(search.New(m)),
		tools.NewFileReader(t.TempDir()),
	)
}

func TestAskDirectAnswer(t *testing.T) {
	chat := &scriptedLLM{replies: []llm.Message{
		{Role: openai.ChatMessageRoleAssistant, Content: "It's a CLI."},
	}}
	ag := New(chat, newTestRegistry(t), "")

	answer, err := ag.Ask(context.Background(), "What is this project?")
	require.NoError(t, err)
	assert.Equal(t, "It's a CLI.", answer)

	// system + user
	require.Len(t, chat.requests, 1)
	assert.Len(t, chat.requests[0], 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, chat.requests[0][0].Role)
}

func TestAskResolvesToolCalls(t *testing.T) {
	chat := &scriptedLLM{replies: []llm.Message{
		{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:   "call-1",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tools.SearchToolName,
					Arguments: `{"query":"database"}`,
				},
			}},
		},
		{Role: openai.ChatMessageRoleAssistant, Content: "The db pool lives in db.go."},
	}}
	ag := New(chat, newTestRegistry(t), "")

	answer, err := ag.Ask(context.Background(), "Where is the db pool?")
	require.NoError(t, err)
	assert.Equal(t, "The db pool lives in db.go.", answer)

	// The second request must carry the tool result as a tool-role
	// message keyed to the call ID.
	require.Len(t, chat.requests, 2)
	second := chat.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
	assert.Equal(t, "map of db.go", last.Content)
}

func TestAskFeedsBackUnknownToolSentinel(t *testing.T) {
	chat := &scriptedLLM{replies: []llm.Message{
		{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:   "call-1",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "bogus",
					Arguments: `{}`,
				},
			}},
		},
		{Role: openai.ChatMessageRoleAssistant, Content: "Let me try something else."},
	}}
	ag := New(chat, newTestRegistry(t), "")

	// The unknown tool doesn't abort the loop; the sentinel flows back
	// into the conversation.
	answer, err := ag.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Let me try something else.", answer)

	second := chat.requests[1]
	last := second[len(second)-1]
	assert.Contains(t, last.Content, "not found")
	assert.Contains(t, last.Content, "bogus")
}

func TestAskKeepsHistory(t *testing.T) {
	chat := &scriptedLLM{replies: []llm.Message{
		{Role: openai.ChatMessageRoleAssistant, Content: "first answer"},
		{Role: openai.ChatMessageRoleAssistant, Content: "second answer"},
	}}
	ag := New(chat, newTestRegistry(t), "")

	_, err := ag.Ask(context.Background(), "first question")
	require.NoError(t, err)
	_, err = ag.Ask(context.Background(), "second question")
	require.NoError(t, err)

	// Second request: system + prior turn + new user message.
	second := chat.requests[1]
	require.Len(t, second, 4)
	assert.Equal(t, "first question", second[1].Content)
	assert.Equal(t, "first answer", second[2].Content)
	assert.Equal(t, "second question", second[3].Content)
}

func TestAskIncludesOverviewInSystemPrompt(t *testing.T) {
	chat := &scriptedLLM{replies: []llm.Message{
		{Role: openai.ChatMessageRoleAssistant, Content: "ok"},
	}}
	ag := New(chat, newTestRegistry(t), "A CLI that indexes codebases.")

	_, err := ag.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Contains(t, chat.requests[0][0].Content, "A CLI that indexes codebases.")
}
