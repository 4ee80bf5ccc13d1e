package index

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Carlosagamez2021/AI-Indexing/internal/store"
	"github.com/Carlosagamez2021/AI-Indexing/internal/walker"
)

// Stats reports indexing results.
type Stats struct {
	FilesTotal  int
	FilesMapped int
	FilesFailed int
}

// ProgressFunc reports pipeline progress: files mapped so far and total
// discovered.
type ProgressFunc func(done, total int)

// runPipeline walks the tree, maps each file through the model with a pool
// of workers, and writes records through a single store writer. Mapping
// failures are logged and counted but don't abort the run; a store write
// failure does.
func runPipeline(
	ctx context.Context,
	root string,
	s store.Store,
	chat generator,
	numWorkers int,
	onProgress ProgressFunc,
) (*Stats, error) {
	if numWorkers <= 0 {
		numWorkers = 4
	}

	fileCh, walkErrCh := walker.Walk(root)
	recordCh := make(chan store.IndexRecord, numWorkers)

	var stats Stats
	var failed []string

	// Mapper workers: read, ask the model, emit a record.
	mappers, mapCtx := errgroup.WithContext(ctx)
	counts := make(chan bool, numWorkers) // true = mapped, false = failed
	for range numWorkers {
		mappers.Go(func() error {
			for fi := range fileCh {
				src, err := os.ReadFile(fi.Path)
				if err != nil {
					counts <- false
					continue
				}

				fm, err := mapFile(mapCtx, chat, fi.RelPath, src)
				if err != nil {
					fmt.Fprintf(os.Stderr, "map error %s: %v\n", fi.RelPath, err)
					counts <- false
					continue
				}

				select {
				case recordCh <- store.IndexRecord{
					Path:        fi.RelPath,
					Content:     fm.Map,
					Keywords:    strings.Join(fm.Keywords, ", "),
					Description: fm.Description,
				}:
				case <-mapCtx.Done():
					return mapCtx.Err()
				}
				counts <- true
			}
			return nil
		})
	}
	go func() {
		mappers.Wait()
		close(recordCh)
		close(counts)
	}()

	// Count results off to the side so the writer loop stays simple.
	countDone := make(chan struct{})
	go func() {
		defer close(countDone)
		for ok := range counts {
			stats.FilesTotal++
			if ok {
				stats.FilesMapped++
			} else {
				stats.FilesFailed++
			}
			if onProgress != nil {
				onProgress(stats.FilesMapped, stats.FilesTotal)
			}
		}
	}()

	// Single writer: the store owns write serialization.
	var storeErr error
	for r := range recordCh {
		if err := s.Upsert(r); err != nil {
			fmt.Fprintf(os.Stderr, "store error %s: %v\n", r.Path, err)
			storeErr = err
			failed = append(failed, r.Path)
		}
	}

	if err := mappers.Wait(); err != nil {
		return &stats, fmt.Errorf("mapping failed: %w", err)
	}
	<-countDone

	if err := <-walkErrCh; err != nil {
		return &stats, fmt.Errorf("walk error: %w", err)
	}
	if storeErr != nil {
		return &stats, fmt.Errorf("storage failed for %d files (%s): %w",
			len(failed), strings.Join(failed, ", "), storeErr)
	}
	return &stats, nil
}
