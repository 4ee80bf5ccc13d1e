package tools

import (
	"fmt"
	"os"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// FileReader reads a file from disk so the model can inspect source the
// index only summarizes. Reads are resolved relative to Root.
type FileReader struct {
	Root string
}

// NewFileReader creates a file reader rooted at the given directory.
func NewFileReader(root string) *FileReader {
	return &FileReader{Root: root}
}

// Execute returns the file contents, or a descriptive string for expected
// failure modes. A missing file is conversationally recoverable, so it is
// reported in the returned text rather than as an error.
func (t *FileReader) Execute(path string) (string, error) {
	data, err := os.ReadFile(t.resolve(path))
	if os.IsNotExist(err) {
		return fmt.Sprintf("file %q not found", path), nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (t *FileReader) resolve(path string) string {
	if t.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(t.Root, path)
}

// Schema declares the file_reader tool to the model.
func (t *FileReader) Schema() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        FileReaderToolName,
			Description: "Read the full contents of a file from the indexed codebase.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"target_file": {
						Type:        jsonschema.String,
						Description: "Path of the file to read, relative to the project root",
					},
				},
				Required: []string{"target_file"},
			},
		},
	}
}
