package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Carlosagamez2021/AI-Indexing/internal/agent"
	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
	"github.com/Carlosagamez2021/AI-Indexing/internal/tools"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about your indexed codebase",
	RunE: func(cmd *cobra.Command, args []string) error {
		ag, st, err := newAgent()
		if err != nil {
			return err
		}
		defer st.Close()

		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("aidx chat (type /help for commands, /exit to quit)")
		fmt.Println()

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}

			switch question {
			case "/exit", "/quit":
				fmt.Println("Goodbye.")
				return nil
			case "/clear":
				ag.Reset()
				fmt.Println("Conversation cleared.")
				continue
			case "/help":
				fmt.Println("Commands:")
				fmt.Println("  /clear  - clear conversation history")
				fmt.Println("  /exit   - quit chat")
				fmt.Println("  /help   - show this help")
				continue
			}

			answer, err := ag.Ask(cmd.Context(), question)
			if err != nil {
				fmt.Fprintf(os.Stderr, "llm error: %v\n", err)
				continue
			}

			fmt.Println()
			fmt.Println(answer)
			fmt.Println()
		}

		return scanner.Err()
	},
}

// newAgent wires the store, engine, tools, and LLM client into an agent.
// The caller owns closing the returned store.
func newAgent() (*agent.Agent, *store.SQLiteStore, error) {
	dbPath, err := requireIndex()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	chat, err := llm.New(flagBaseURL, flagModel)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	root, err := st.GetMeta("root")
	if err != nil || root == "" {
		root = filepath.Dir(filepath.Dir(dbPath))
	}

	registry := tools.NewRegistry(
		tools.NewSearchTool(search.New(st)),
		tools.NewFileReader(root),
	)

	return agent.New(chat, registry, loadOverview(dbPath)), st, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
