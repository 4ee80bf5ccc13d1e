package index

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

const overviewPrompt = `You are a senior software architect analyzing a codebase. Based ONLY on the per-file descriptions and keywords provided below, write a concise architectural overview in Markdown.

Rules:
- ONLY describe what you can directly observe in the provided descriptions
- Do NOT guess or infer features that aren't shown
- Do NOT describe external tools or services — describe THIS project

Cover:
1. What the project does (one paragraph)
2. Major components and how they connect (bullet points)
3. Key data flows through the system

Keep it under 300 words. Do not include code snippets.
`

// synthesizeOverview combines all file descriptions into a project-level
// architectural overview.
func synthesizeOverview(ctx context.Context, s store.Store, chat generator) (string, error) {
	records, err := s.List()
	if err != nil {
		return "", fmt.Errorf("list records: %w", err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no files indexed")
	}

	var b strings.Builder
	b.WriteString(overviewPrompt)
	b.WriteString("\n## Files\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "### %s\n", r.Path)
		fmt.Fprintf(&b, "Keywords: %s\n", r.Keywords)
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}

	return chat.Generate(ctx, []llm.Message{
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	})
}
