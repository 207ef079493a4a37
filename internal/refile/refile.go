// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refile moves processed files into the datetree without ever
// overwriting existing content. The destination tree is append-only:
// naming collisions are disambiguated, never clobbered.
// Implements: prd012-refiling (R1-R4);
//
//	docs/ARCHITECTURE § Refiling.
package refile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/refile-engine/pkg/types"
)

// Refiler computes datetree destinations and performs the move.
type Refiler struct {
	// DestRoot is the root of the datetree.
	DestRoot string

	// DryRun suppresses every filesystem mutation; only the resolved
	// target is reported.
	DryRun bool

	// Logger receives warnings for non-fatal cleanup failures.
	Logger *slog.Logger
}

// New returns a Refiler for destRoot.
func New(destRoot string, dryRun bool, logger *slog.Logger) *Refiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refiler{DestRoot: destRoot, DryRun: dryRun, Logger: logger}
}

// Plan computes the destination for filename under the confirmed date:
// destRoot/YYYY/MM/DD/filename, with a _<N> suffix inserted before the
// extension when that name is already taken. Uniqueness is established by
// construction at the time of the call; concurrent runs against the same
// tree are not supported.
func (r *Refiler) Plan(filename string, date types.DateCandidate) types.RefileTarget {
	folder := filepath.Join(r.DestRoot,
		fmt.Sprintf("%04d", date.Year),
		fmt.Sprintf("%02d", date.Month),
		fmt.Sprintf("%02d", date.Day),
	)
	return types.RefileTarget{
		Folder: folder,
		File:   uniquePath(folder, filename),
	}
}

// Refile moves the processed file at processedPath to the target and then
// deletes the original source file. The move must succeed before the
// original is touched; a delete failure after a successful move is logged
// and reported as non-fatal because the relocated copy is already in place.
//
// In dry-run mode Refile computes and returns the target without mutating
// anything.
func (r *Refiler) Refile(processedPath, originalPath, filename string, date types.DateCandidate) (types.RefileTarget, error) {
	target := r.Plan(filename, date)
	if r.DryRun {
		return target, nil
	}

	if err := os.MkdirAll(target.Folder, 0o755); err != nil {
		return target, fmt.Errorf("creating destination folder %s: %w", target.Folder, err)
	}

	if err := moveFile(processedPath, target.File); err != nil {
		return target, fmt.Errorf("moving %s to %s: %w", processedPath, target.File, err)
	}

	if err := os.Remove(originalPath); err != nil {
		// The processed copy is at its correct location; losing the
		// original cleanup does not undo the relocation.
		r.Logger.Warn("could not remove original after refiling",
			"original", originalPath, "dest", target.File, "error", err)
	}
	return target, nil
}

// uniquePath returns folder/filename, or the first folder/base_<N>.<ext>
// that does not exist on disk, counting up from 1.
func uniquePath(folder, filename string) string {
	dest := filepath.Join(folder, filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for n := 1; exists(dest); n++ {
		dest = filepath.Join(folder, fmt.Sprintf("%s_%d%s", base, n, ext))
	}
	return dest
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// two paths are on different filesystems (the OCR workspace is usually a
// tmpfs mount).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// O_EXCL: the destination was chosen to be unique, so an existing
	// file here means the computation is stale and must not be clobbered.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
