// Package index builds the LLM-generated index: it walks a codebase, turns
// each source file into a repository map with a description and keywords,
// and persists the records.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carlosagamez2021/AI-Indexing/internal/llm"
	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
)

// Config holds the indexer configuration.
type Config struct {
	DBPath  string
	BaseURL string
	Model   string
	Workers int
	// Reset drops all existing records before indexing, clearing out
	// entries for files that no longer exist.
	Reset bool
}

// Indexer is the public API for building the index.
type Indexer struct {
	store  *store.SQLiteStore
	chat   *llm.Client
	config Config
}

// New creates a new Indexer with the given configuration.
func New(cfg Config) (*Indexer, error) {
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	chat, err := llm.New(cfg.BaseURL, cfg.Model)
	if err != nil {
		s.Close()
		return nil, err
	}

	return &Indexer{store: s, chat: chat, config: cfg}, nil
}

// Index maps the codebase at the given root path into the record store and
// regenerates the project overview.
func (idx *Indexer) Index(ctx context.Context, root string, onProgress ProgressFunc) (*Stats, error) {
	if idx.config.Reset {
		if err := idx.store.DeleteAll(); err != nil {
			return nil, fmt.Errorf("reset records: %w", err)
		}
	}

	stats, err := runPipeline(ctx, root, idx.store, idx.chat, idx.config.Workers, onProgress)
	if err != nil {
		return stats, err
	}

	if err := idx.store.SetMeta("model", idx.config.Model); err != nil {
		return stats, fmt.Errorf("set meta: %w", err)
	}
	if err := idx.store.SetMeta("root", root); err != nil {
		return stats, fmt.Errorf("set meta: %w", err)
	}

	// Regenerate the project overview from the fresh descriptions.
	if stats.FilesMapped > 0 {
		overview, err := synthesizeOverview(ctx, idx.store, idx.chat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: overview generation failed: %v\n", err)
		} else {
			overviewPath := filepath.Join(filepath.Dir(idx.config.DBPath), "overview.md")
			if err := os.WriteFile(overviewPath, []byte(overview), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to write overview: %v\n", err)
			}
		}
	}

	return stats, nil
}

// Close releases resources.
func (idx *Indexer) Close() error {
	return idx.store.Close()
}
