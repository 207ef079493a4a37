// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr wraps the external OCR and text-extraction tools. Its only
// contract with the rest of the pipeline is "produce a searchable PDF" and
// "produce a sequence of text lines"; everything else about how OCR works
// is the tools' business.
package ocr

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os/exec"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// Engine drives ocrmypdf and pdftotext.
type Engine struct {
	cfg    types.OCRConfig
	runner Runner
	logger *slog.Logger
}

// NewEngine returns an Engine using the configured binaries, defaulting to
// "ocrmypdf" and "pdftotext" on PATH.
func NewEngine(cfg types.OCRConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Ocrmypdf == "" {
		cfg.Ocrmypdf = "ocrmypdf"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Engine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// CheckDependencies verifies that both external tools are installed. This
// runs before any file is touched; a missing tool aborts the whole run.
func (e *Engine) CheckDependencies() error {
	for _, bin := range []string{e.cfg.Ocrmypdf, e.cfg.Pdftotext} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("the %s utility is required but not installed: %w", bin, err)
		}
	}
	return nil
}

// MakeSearchable produces a searchable PDF at dst from the scan at src.
// Pages that already carry a text layer are passed through untouched.
func (e *Engine) MakeSearchable(ctx context.Context, src, dst string) error {
	// ocrmypdf --skip-text --output-type pdf --quiet <src> <dst>
	_, errb, err := e.runner.Run(ctx, e.cfg.Ocrmypdf,
		"--skip-text", "--output-type", "pdf", "--quiet", src, dst)
	if err != nil {
		return fmt.Errorf("ocrmypdf failed for %s: %w (%s)", src, err, truncate(string(errb), 512))
	}
	return nil
}

// Lines streams the text content of the searchable PDF at path, one line
// per element. Extraction is fresh per call and fully lazy: pdftotext is
// started on first pull and killed as soon as the consumer stops, so a
// short-circuiting caller never pays for the whole document.
func (e *Engine) Lines(ctx context.Context, path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		// pdftotext -layout -enc UTF-8 -eol unix <path> -
		cmd := exec.CommandContext(ctx, e.cfg.Pdftotext,
			"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
		out, err := cmd.StdoutPipe()
		if err != nil {
			e.logger.Error("pdftotext pipe failed", "path", path, "error", err)
			return
		}
		if err := cmd.Start(); err != nil {
			e.logger.Error("pdftotext start failed", "path", path, "error", err)
			return
		}

		sc := bufio.NewScanner(out)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			if !yield(sc.Text()) {
				cmd.Process.Kill()
				cmd.Wait()
				return
			}
		}
		if err := cmd.Wait(); err != nil {
			e.logger.Warn("pdftotext exited with error", "path", path, "error", err)
		}
	}
}
