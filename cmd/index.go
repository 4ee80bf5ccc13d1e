package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carlosagamez2021/AI-Indexing/internal/index"
)

var (
	flagWorkers int
	flagReset   bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Build the LLM-generated index for a codebase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		dbPath := flagDB
		if dbPath == "" {
			dbPath = filepath.Join(root, ".aidx", "index.db")
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}

		idx, err := index.New(index.Config{
			DBPath:  dbPath,
			BaseURL: flagBaseURL,
			Model:   flagModel,
			Workers: flagWorkers,
			Reset:   flagReset,
		})
		if err != nil {
			return err
		}
		defer idx.Close()

		fmt.Printf("Indexing %s...\n", root)
		start := time.Now()

		stats, err := idx.Index(cmd.Context(), root, func(done, total int) {
			fmt.Printf("\r  Mapped %d/%d files", done, total)
		})
		elapsed := time.Since(start)

		if stats != nil {
			fmt.Printf("\nDone in %s\n", elapsed.Round(time.Millisecond))
			fmt.Printf("  Files:  %d total, %d mapped, %d failed\n",
				stats.FilesTotal, stats.FilesMapped, stats.FilesFailed)
		}

		return err
	},
}

func init() {
	indexCmd.Flags().IntVar(&flagWorkers, "workers", 4, "parallel mapping workers")
	indexCmd.Flags().BoolVar(&flagReset, "reset", false, "drop all existing records before indexing")
	rootCmd.AddCommand(indexCmd)
}
