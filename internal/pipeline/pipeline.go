// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the refiling sequence: discover PDFs, OCR each
// one, resolve its date, confirm when needed, and move it into the
// datetree. Files are processed strictly one at a time; a per-file failure
// is logged and skipped, never fatal for the run.
// Implements: prd010-refile-pipeline (R1-R5);
//
//	docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/refile-engine/internal/confirm"
	"github.com/pdiddy/refile-engine/internal/refile"
	"github.com/pdiddy/refile-engine/internal/resolve"
	"github.com/pdiddy/refile-engine/pkg/types"
)

// Engine is the OCR/extraction collaborator contract the pipeline needs.
type Engine interface {
	// MakeSearchable produces a searchable PDF at dst from the scan at src.
	MakeSearchable(ctx context.Context, src, dst string) error

	// Lines streams the text of a searchable PDF, restartable per call.
	Lines(ctx context.Context, path string) iter.Seq[string]
}

// Recorder is the journal contract; recording failures are non-fatal.
type Recorder interface {
	Record(ctx context.Context, sourcePath string, target types.RefileTarget, date types.DateCandidate) error
}

// BatchResult holds the outcome of one run.
type BatchResult struct {
	Refiled int
	Skipped int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Refiled + r.Skipped
}

// HasFailures reports whether any files were skipped.
func (r BatchResult) HasFailures() bool {
	return r.Skipped > 0
}

// Pipeline wires the stages together for one run.
type Pipeline struct {
	Engine    Engine
	Resolver  resolve.Resolver
	Confirmer *confirm.Confirmer
	Refiler   *refile.Refiler
	Journal   Recorder // nil disables journaling
	Workspace *Workspace
	Logger    *slog.Logger
}

// Run processes every discovered PDF under scanDir, printing per-file
// progress to w and returning a summary. Each file is fully processed
// before the next begins; candidate dates and targets never outlive their
// file's iteration.
func (p *Pipeline) Run(ctx context.Context, scanDir string, w io.Writer) (BatchResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := Discover(scanDir)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fmt.Fprintf(w, "Processing %s...\n", path)
		target, err := p.processFile(ctx, path, i)
		if err != nil {
			fmt.Fprintf(w, "skipped: %s (%v)\n", path, err)
			logger.Error("file skipped", "path", path, "error", err)
			result.Skipped++
			continue
		}

		if p.Refiler.DryRun {
			fmt.Fprintf(w, "would move %s to %s\n", path, target.File)
		} else {
			fmt.Fprintf(w, "moved %s to %s\n", path, target.File)
		}
		result.Refiled++
	}

	verb := "refiled"
	if p.Refiler.DryRun {
		verb = "resolved"
	}
	fmt.Fprintf(w, "\nBatch summary: %d %s, %d skipped (total: %d)\n",
		result.Refiled, verb, result.Skipped, result.Total())
	return result, nil
}

// processFile runs one file through OCR, resolution, confirmation, and
// refiling. seq keeps workspace names unique when two source directories
// hold files with the same base name.
func (p *Pipeline) processFile(ctx context.Context, path string, seq int) (types.RefileTarget, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.RefileTarget{}, fmt.Errorf("reading file info: %w", err)
	}
	entry := types.RawFileEntry{
		Path:         path,
		Filename:     filepath.Base(path),
		CreationTime: info.ModTime(),
	}

	ocrPath := p.Workspace.Path(fmt.Sprintf("%d-%s", seq, entry.Filename))
	if err := p.Engine.MakeSearchable(ctx, path, ocrPath); err != nil {
		return types.RefileTarget{}, fmt.Errorf("ocr: %w", err)
	}

	// The line sequence is lazy: it is never pulled for filename-dated
	// files, and pulled only to the first hit otherwise.
	cand, needsConfirm := p.Resolver.Resolve(entry, p.Engine.Lines(ctx, ocrPath))

	cand, err = p.Confirmer.Confirm(path, cand, needsConfirm)
	if err != nil {
		return types.RefileTarget{}, fmt.Errorf("confirmation: %w", err)
	}

	target, err := p.Refiler.Refile(ocrPath, path, entry.Filename, cand)
	if err != nil {
		return target, err
	}

	if p.Journal != nil && !p.Refiler.DryRun {
		if err := p.Journal.Record(ctx, path, target, cand); err != nil {
			// The move already succeeded; a missing audit row does not
			// undo it.
			logger := p.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("journal write failed", "path", path, "error", err)
		}
	}
	return target, nil
}

// Discover lists PDF files in scanDir and exactly one nesting level of
// subdirectories, sorted.
func Discover(scanDir string) ([]string, error) {
	if _, err := os.Stat(scanDir); err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", scanDir, err)
	}

	var files []string
	entries, err := os.ReadDir(scanDir)
	if err != nil {
		return nil, fmt.Errorf("reading scan directory: %w", err)
	}
	for _, e := range entries {
		full := filepath.Join(scanDir, e.Name())
		if e.IsDir() {
			subEntries, err := os.ReadDir(full)
			if err != nil {
				continue
			}
			for _, se := range subEntries {
				if !se.IsDir() && isPDF(se.Name()) {
					files = append(files, filepath.Join(full, se.Name()))
				}
			}
			continue
		}
		if isPDF(e.Name()) {
			files = append(files, full)
		}
	}
	sort.Strings(files)
	return files, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
