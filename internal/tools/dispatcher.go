package tools

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Call is one tool invocation requested by the model: a tool name and its
// JSON-encoded arguments.
type Call struct {
	Name      string
	Arguments json.RawMessage
}

// Registry is the closed set of tools available to the agent loop. Adding a
// tool means adding a field here, a case in dispatch, and a schema entry —
// all compile-time checked.
type Registry struct {
	search *SearchTool
	reader *FileReader
}

// NewRegistry creates a registry over the two built-in tools.
func NewRegistry(search *SearchTool, reader *FileReader) *Registry {
	return &Registry{search: search, reader: reader}
}

// Schemas returns the tool declarations advertised to the model.
func (r *Registry) Schemas() []openai.Tool {
	return []openai.Tool{
		r.search.Schema(),
		r.reader.Schema(),
	}
}

// Dispatch routes a tool call and always returns plain text. The consumer is
// a conversational context that cannot receive structured errors, so every
// failure — unknown tool, bad arguments, execution error, even a panic — is
// flattened to a sentinel string here and nowhere below.
func (r *Registry) Dispatch(call Call) (result string) {
	defer func() {
		if p := recover(); p != nil {
			result = fmt.Sprintf("Error: tool %s panicked: %v", call.Name, p)
		}
	}()

	text, err := r.dispatch(call)
	if err != nil {
		return "Error: " + err.Error()
	}
	return text
}

// dispatch resolves the call to a typed argument struct and executes the
// matching tool. Errors stay structured until Dispatch serializes them.
func (r *Registry) dispatch(call Call) (string, error) {
	switch call.Name {
	case SearchToolName:
		var args SearchArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("tool %s: bad arguments: %w", call.Name, err)
		}
		return r.search.Execute(args.Query)
	case FileReaderToolName:
		var args FileReaderArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("tool %s: bad arguments: %w", call.Name, err)
		}
		return r.reader.Execute(args.TargetFile)
	default:
		return "", fmt.Errorf("tool %q not found", call.Name)
	}
}
