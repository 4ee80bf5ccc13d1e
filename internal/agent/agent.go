// Package agent runs the tool-equipped conversation loop: it asks the model
// for the next action and, when the model requests a tool, routes the call
// through the dispatcher and feeds the text result back as context.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
	"github.com/Carlosagamez2021/AI-Indexing/internal/tools"
)

const systemPrompt = `You are a code intelligence assistant. You answer questions about a codebase using two tools:

- semantic_search: find the files most relevant to a topic. Returns compact repository maps of matching files.
- file_reader: read the full contents of a specific file.

Search first to locate relevant files, then read the ones you need. Reference specific file paths in your answers. Keep answers concise and grounded in what the tools return. If the tools don't surface enough information, say so.`

// maxToolRounds bounds how many consecutive tool-call turns the model gets
// before the loop gives up on it producing an answer.
const maxToolRounds = 8

// Completer is the model surface the agent needs; satisfied by llm.Client.
type Completer interface {
	GenerateWithTools(ctx context.Context, messages []llm.Message, tools []openai.Tool) (llm.Message, error)
}

// Agent holds a conversation with the model on behalf of the user.
type Agent struct {
	llm      Completer
	registry *tools.Registry
	overview string
	history  []llm.Message
}

// New creates an agent. overview, when non-empty, is appended to the system
// prompt so the model starts with a picture of the project.
func New(c Completer, registry *tools.Registry, overview string) *Agent {
	return &Agent{llm: c, registry: registry, overview: overview}
}

// Ask sends the user's question, resolves any tool calls the model makes,
// and returns the model's final text answer. Conversation history is kept
// across calls until Reset.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	sys := systemPrompt
	if a.overview != "" {
		sys += "\n\n## Project Overview\n\n" + a.overview
	}

	msgs := []llm.Message{{Role: openai.ChatMessageRoleSystem, Content: sys}}
	msgs = append(msgs, a.history...)
	msgs = append(msgs, llm.Message{Role: openai.ChatMessageRoleUser, Content: question})

	schemas := a.registry.Schemas()

	for round := 0; round < maxToolRounds; round++ {
		reply, err := a.llm.GenerateWithTools(ctx, msgs, schemas)
		if err != nil {
			return "", err
		}
		msgs = append(msgs, reply)

		if len(reply.ToolCalls) == 0 {
			a.remember(question, reply.Content)
			return reply.Content, nil
		}

		for _, tc := range reply.ToolCalls {
			result := a.registry.Dispatch(tools.Call{
				Name:      tc.Function.Name,
				Arguments: json.RawMessage(tc.Function.Arguments),
			})
			msgs = append(msgs, llm.Message{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: tc.ID,
				Content:    result,
			})
		}
	}

	return "", fmt.Errorf("no answer after %d tool rounds", maxToolRounds)
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	a.history = nil
}

// remember appends the exchange to history, keeping the last 10 turns.
func (a *Agent) remember(question, answer string) {
	a.history = append(a.history,
		llm.Message{Role: openai.ChatMessageRoleUser, Content: question},
		llm.Message{Role: openai.ChatMessageRoleAssistant, Content: answer},
	)
	if len(a.history) > 20 {
		a.history = a.history[len(a.history)-20:]
	}
}
