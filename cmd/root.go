package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagBaseURL string
	flagModel   string
)

var rootCmd = &cobra.Command{
	Use:   "aidx",
	Short: "LLM-assisted codebase indexing and natural-language search",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	// Load .env if present (for OPENAI_API_KEY).
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default <cwd>/.aidx/index.db)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "OpenAI-compatible API base URL (default: OpenAI)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "gpt-4o-mini", "chat model")
}

// resolveDBPath returns the database path, defaulting under the working
// directory.
func resolveDBPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, ".aidx", "index.db"), nil
}

// requireIndex resolves the database path and fails with a hint when the
// index hasn't been built yet.
func requireIndex() (string, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("index not found at %s\nRun 'aidx index <path>' first to build the index", dbPath)
	}
	return dbPath, nil
}

// loadOverview reads the generated project overview next to the database,
// returning "" if it doesn't exist.
func loadOverview(dbPath string) string {
	data, err := os.ReadFile(filepath.Join(filepath.Dir(dbPath), "overview.md"))
	if err != nil {
		return ""
	}
	return string(data)
}
