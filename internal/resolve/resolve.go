// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve decides which date stamp to trust for a scanned file.
// Sources are tried in a fixed priority order with early exit: filename
// prefix, Scanned_ prefix, extracted text, filesystem timestamp.
// Implements: prd011-date-resolution (R2-R4);
//
//	docs/ARCHITECTURE § Date Resolution.
package resolve

import (
	"iter"
	"regexp"
	"time"

	"github.com/pdiddy/refile-engine/internal/dateparse"
	"github.com/pdiddy/refile-engine/pkg/types"
)

var (
	filenamePrefix = regexp.MustCompile(`^(\d{8})-.*\.pdf$`)
	scannedPrefix  = regexp.MustCompile(`^Scanned_(\d{8})-.*\.pdf$`)
)

// Now returns the current time. Tests override this to pin the staleness
// window.
var Now = time.Now

// Resolver produces a date candidate for one file.
type Resolver struct {
	Parser dateparse.Parser
	Config types.ResolveConfig
}

// Resolve walks the priority chain for entry and returns the winning
// candidate together with a flag indicating whether the operator must
// confirm it. Later sources never override an earlier success.
//
// The lines sequence is consumed lazily and abandoned at the first hit, so
// large documents are not read past the first recognizable date. A filename
// hit never touches the sequence at all.
func (r Resolver) Resolve(entry types.RawFileEntry, lines iter.Seq[string]) (types.DateCandidate, bool) {
	// Filename-derived dates are trusted unconditionally: explicit naming
	// outranks anything found inside the document.
	if cand, ok := fromPrefix(filenamePrefix, entry.Filename, types.SourceFilename); ok {
		return cand, false
	}
	if cand, ok := fromPrefix(scannedPrefix, entry.Filename, types.SourceScannedPrefix); ok {
		return cand, false
	}

	for line := range lines {
		cand, ok := r.Parser.Parse(line)
		if !ok {
			continue
		}
		return cand, r.stale(cand)
	}

	// Last resort: suggest the filesystem timestamp, which always needs
	// operator confirmation.
	t := entry.CreationTime
	cand := types.DateCandidate{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Source: types.SourceFSTimestamp,
	}
	return cand, true
}

// fromPrefix extracts the 8-digit prefix when name matches re. A prefix
// that is not a valid calendar date is discarded and the chain continues.
func fromPrefix(re *regexp.Regexp, name string, source types.DateSource) (types.DateCandidate, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return types.DateCandidate{}, false
	}
	cand, err := types.ParseStamp(m[1], source)
	if err != nil {
		return types.DateCandidate{}, false
	}
	return cand, true
}

// stale reports whether a text-scanned candidate lies strictly more than
// the staleness window from the current date, counted in whole calendar
// days so the time of day never tips a boundary case. Such candidates are
// still passed through as the suggested default.
func (r Resolver) stale(cand types.DateCandidate) bool {
	days := r.Config.StalenessWindowDays
	if days <= 0 {
		days = 365
	}
	now := Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(today.Sub(cand.Time()) / (24 * time.Hour))
	if diff < 0 {
		diff = -diff
	}
	return diff > days
}
