package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
)

const mapPrompt = `Analyze this source file and respond with a single JSON object, no other text:

{
  "map": "a compact structured outline of the file's symbols: types, functions, methods, constants, with one line per symbol including its signature",
  "description": "one paragraph in natural language describing what the file does and its role in the project",
  "keywords": ["up to five short lowercase tags capturing the file's domain and responsibilities"]
}

Keep the map under 40 lines. Do not invent symbols that aren't in the code.

File: %s

` + "```\n%s\n```"

// FileMap is the model's analysis of one source file.
type FileMap struct {
	Map         string   `json:"map"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// generator is the model surface the mapper needs; satisfied by llm.Client.
type generator interface {
	Generate(ctx context.Context, messages []llm.Message) (string, error)
}

// mapFile asks the model to turn one source file into a repository map,
// description, and keyword tags.
func mapFile(ctx context.Context, chat generator, relPath string, src []byte) (*FileMap, error) {
	prompt := fmt.Sprintf(mapPrompt, relPath, string(src))
	reply, err := chat.Generate(ctx, []llm.Message{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", relPath, err)
	}

	fm, err := parseFileMap(reply)
	if err != nil {
		return nil, fmt.Errorf("parse map for %s: %w", relPath, err)
	}
	return fm, nil
}

// parseFileMap decodes the model's JSON reply, tolerating markdown fences
// and leading prose, and validates that every field is populated.
func parseFileMap(reply string) (*FileMap, error) {
	raw := extractJSON(reply)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var fm FileMap
	if err := json.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, err
	}

	fm.Map = strings.TrimSpace(fm.Map)
	fm.Description = strings.TrimSpace(fm.Description)
	if fm.Map == "" || fm.Description == "" || len(fm.Keywords) == 0 {
		return nil, fmt.Errorf("incomplete reply: map, description, and keywords are all required")
	}
	if len(fm.Keywords) > 5 {
		fm.Keywords = fm.Keywords[:5]
	}
	for i, k := range fm.Keywords {
		fm.Keywords[i] = strings.ToLower(strings.TrimSpace(k))
	}
	return &fm, nil
}

// extractJSON returns the outermost {...} span of the reply.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
