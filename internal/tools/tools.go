// Package tools exposes the search engine and a file-read capability as
// named, schema-described tools callable from an LLM conversation, and the
// dispatcher that routes tool calls to them.
package tools

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
)

// Tool names as advertised to the model.
const (
	SearchToolName     = "semantic_search"
	FileReaderToolName = "file_reader"
)

// SearchArgs are the arguments for the semantic_search tool.
type SearchArgs struct {
	Query string `json:"query"`
}

// FileReaderArgs are the arguments for the file_reader tool.
type FileReaderArgs struct {
	TargetFile string `json:"target_file"`
}

// SearchTool answers natural-language queries against the index.
type SearchTool struct {
	engine *search.Engine
}

// NewSearchTool creates a search tool over the given engine.
func NewSearchTool(engine *search.Engine) *SearchTool {
	return &SearchTool{engine: engine}
}

// Execute runs the query and returns the content fields of the ranked,
// deduplicated matches joined by newlines. No matches means an empty string;
// that is a successful outcome, not an error.
func (t *SearchTool) Execute(query string) (string, error) {
	results, err := t.engine.Search(query)
	if err != nil {
		return "", err
	}
	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Record.Content
	}
	return strings.Join(contents, "\n"), nil
}

// Schema declares the semantic_search tool to the model.
func (t *SearchTool) Schema() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        SearchToolName,
			Description: "Search the indexed codebase with a natural language query. Returns the repository maps of the most relevant files.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {
						Type:        jsonschema.String,
						Description: "Natural language or keyword query to search the codebase",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}
