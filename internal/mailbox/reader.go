// Package mailbox reads a directory of .eml documents into parsed
// Documents: decoded headers, best-effort date, and a plain-text body with
// any HTML converted to visible text.
package mailbox

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// maxWorkers caps parsing concurrency regardless of available parallelism.
const maxWorkers = 12

// DefaultWorkers returns the parsing concurrency used when none is
// configured: available parallelism, capped.
func DefaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > maxWorkers {
		return maxWorkers
	}
	if n < 1 {
		return 1
	}
	return n
}

// ScanResult reports what happened while reading the corpus.
type ScanResult struct {
	Documents []model.Document
	Scanned   int // .eml files found
	Failed    int // files that could not be parsed
}

// ReadDir parses every .eml file directly under dir with bounded
// concurrency. A file that fails to parse is logged and skipped; it never
// cancels sibling work. A missing or unreadable directory is an error, since
// callers only reach here in modes that require the corpus.
func ReadDir(dir string, workers int) (*ScanResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "mailbox: read corpus directory %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			continue
		}
		paths = append(paths, entry.Name())
	}
	sort.Strings(paths)

	if workers <= 0 {
		workers = DefaultWorkers()
	}

	result := &ScanResult{Scanned: len(paths)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for _, name := range paths {
		g.Go(func() error {
			doc, err := ParseFile(filepath.Join(dir, name), name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				zap.L().Warn("mailbox: skipping unparseable document",
					zap.String("file", name), zap.Error(err))
				return nil
			}
			result.Documents = append(result.Documents, *doc)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	// Concurrent completion scrambles order; restore scan order by id.
	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].ID < result.Documents[j].ID
	})

	zap.L().Info("mailbox: corpus scan complete",
		zap.String("dir", dir),
		zap.Int("scanned", result.Scanned),
		zap.Int("parsed", len(result.Documents)),
		zap.Int("failed", result.Failed))
	return result, nil
}
