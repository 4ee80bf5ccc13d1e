package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Carlosagamez2021/AI-Indexing/internal/search"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

var (
	flagFull    bool
	flagVerbose bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the index and print ranked matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := requireIndex()
		if err != nil {
			return err
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer st.Close()

		engine := search.New(st)
		if flagVerbose {
			engine = search.NewWithTrace(st, os.Stderr)
		}

		results, err := engine.Search(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%3d  %s\n", r.Score, r.Record.Path)
			if flagFull {
				fmt.Printf("     %s\n\n%s\n\n", r.Record.Keywords, r.Record.Content)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&flagFull, "full", false, "show keywords and repository map for each match")
	searchCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "print scoring diagnostics to stderr")
	rootCmd.AddCommand(searchCmd)
}
